package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"xdapi/internal/config"
)

func TestNewMinIO_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.MinIOConfig
		wantMsg string
	}{
		{name: "missing endpoint", cfg: config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}, wantMsg: "endpoint is required"},
		{name: "missing credentials", cfg: config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}, wantMsg: "credentials are required"},
		{name: "missing bucket", cfg: config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, wantMsg: "bucket is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(ctx, tt.cfg)
			assert.Nil(t, s)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}

func TestMapError(t *testing.T) {
	noKey := minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	assert.True(t, errors.Is(mapError("containers/x.xd", noKey), ErrNotFound))

	noBucket := minio.ErrorResponse{Code: "NoSuchBucket"}
	assert.True(t, errors.Is(mapError("containers/x.xd", noBucket), ErrNotFound))

	other := errors.New("connection refused")
	assert.Equal(t, other, mapError("containers/x.xd", other))
}

func TestDownloadParams(t *testing.T) {
	v := downloadParams("containers/0b1c.xd")

	assert.Equal(t, `attachment; filename="0b1c.xd"`, v.Get("response-content-disposition"))
	assert.Equal(t, ContainerContentType, v.Get("response-content-type"))
}

func TestObjectInfo(t *testing.T) {
	st := minio.ObjectInfo{
		Key:          "containers/a.xd",
		Size:         42,
		ETag:         "etag",
		ContentType:  ContainerContentType,
		UserMetadata: minio.StringMap{"Original-Filename": "a.xd"},
	}

	info := objectInfo(st)

	assert.Equal(t, "containers/a.xd", info.Key)
	assert.Equal(t, int64(42), info.Size)
	assert.Equal(t, "a.xd", info.Metadata["Original-Filename"])
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(config.MinIOConfig{AccessKey: "a", SecretKey: "s", UseSSL: true})

	assert.True(t, opts.Secure)
	require.NotNil(t, opts.Creds)
	v, err := opts.Creds.Get()
	require.NoError(t, err)
	assert.Equal(t, "a", v.AccessKeyID)
	assert.IsType(t, &otelhttp.Transport{}, opts.Transport)
}

func TestClientOptions_TracesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rec := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(rec))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	rt := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(storageSpanName),
		otelhttp.WithTracerProvider(tp),
	)
	req, err := http.NewRequest(http.MethodHead, srv.URL+"/xd-containers", nil)
	require.NoError(t, err)
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "minio HEAD", spans[0].Name())
}

package xd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"xdapi/internal/archive"
	"xdapi/internal/codec"
	"xdapi/internal/metrics"
	"xdapi/internal/model"
)

const (
	manifestEntry   = "manifest"
	resourcesPrefix = "resources/"
)

var tracer = otel.Tracer("xdapi/internal/xd")

// ArtboardEntry returns the graphics document entry for a manifest artboard path.
func ArtboardEntry(path string) string {
	return "artwork/" + path + "/graphics/graphicContent.agc"
}

// ResourceEntry returns the archive entry holding the resource with uid.
func ResourceEntry(uid string) string {
	return resourcesPrefix + uid
}

// Artboard pairs a manifest entry with its parsed graphics document.
type Artboard struct {
	Entry    model.ManifestEntry
	Document *model.ArtboardDocument
}

// Name is the artboard name recorded in the manifest.
func (a Artboard) Name() string { return a.Entry.Name }

// Nodes returns the artboard's top-level nodes in document order.
func (a Artboard) Nodes() []model.Node { return a.Document.Nodes() }

// Document is a loaded container. It keeps the archive open so resources can
// be fetched on demand; call Close when done. Not safe for concurrent use.
type Document struct {
	Manifest  *model.Manifest
	Artboards []Artboard

	archive *archive.Archive
	log     *zap.Logger
	metrics *metrics.Loader
}

type options struct {
	log     *zap.Logger
	metrics *metrics.Loader
}

type Option func(*options)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics records load and resource outcomes in m.
func WithMetrics(m *metrics.Loader) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load opens the container at path and parses its manifest and every artboard.
// Any failure aborts the load, releases the archive and returns a *LoadError.
func Load(ctx context.Context, path string, opts ...Option) (*Document, error) {
	o := buildOptions(opts)
	ctx, span := tracer.Start(ctx, "xd.Load")
	defer span.End()
	span.SetAttributes(attribute.String("xd.container", path))

	a, err := archive.Open(path)
	if err != nil {
		return nil, o.fail(span, time.Now(), &LoadError{Kind: KindArchiveOpen, Entry: path, Err: err})
	}
	return o.load(ctx, span, a)
}

// LoadReader is Load for a container held in r, such as a buffered upload.
// name is used in errors and logs.
func LoadReader(ctx context.Context, name string, r io.ReaderAt, size int64, opts ...Option) (*Document, error) {
	o := buildOptions(opts)
	ctx, span := tracer.Start(ctx, "xd.Load")
	defer span.End()
	span.SetAttributes(attribute.String("xd.container", name))

	a, err := archive.NewReader(name, r, size)
	if err != nil {
		return nil, o.fail(span, time.Now(), &LoadError{Kind: KindArchiveOpen, Entry: name, Err: err})
	}
	return o.load(ctx, span, a)
}

func (o options) load(ctx context.Context, span trace.Span, a *archive.Archive) (doc *Document, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	manifest, err := readManifest(a)
	if err != nil {
		return nil, o.fail(span, start, err)
	}

	sections := manifest.EntriesWithPath(model.ArtworkPath)
	switch {
	case len(sections) == 0:
		return nil, o.fail(span, start, &LoadError{Kind: KindArtworkSection, Entry: manifestEntry, Err: ErrMissingArtworkSection})
	case len(sections) > 1:
		return nil, o.fail(span, start, &LoadError{
			Kind:  KindArtworkSection,
			Entry: manifestEntry,
			Err:   fmt.Errorf("%w: found %d", ErrAmbiguousArtworkSection, len(sections)),
		})
	}

	entries := sections[0].Children
	o.log.Debug("manifest read",
		zap.String("container", a.Name()),
		zap.String("manifest_id", manifest.ID),
		zap.Int("artboards", len(entries)),
	)

	artboards := make([]Artboard, 0, len(entries))
	for _, entry := range entries {
		ab, err := readArtboard(ctx, a, entry)
		if err != nil {
			return nil, o.fail(span, start, err)
		}
		o.log.Debug("artboard read", zap.String("entry", ArtboardEntry(entry.Path)), zap.String("name", entry.Name))
		artboards = append(artboards, ab)
	}

	o.metrics.ObserveLoad("ok", len(artboards))
	span.SetAttributes(attribute.Int("xd.artboards", len(artboards)))
	o.log.Debug("container loaded",
		zap.String("container", a.Name()),
		zap.Int("artboards", len(artboards)),
		zap.Duration("duration", time.Since(start)),
	)

	return &Document{
		Manifest:  manifest,
		Artboards: artboards,
		archive:   a,
		log:       o.log,
		metrics:   o.metrics,
	}, nil
}

func readManifest(a *archive.Archive) (*model.Manifest, error) {
	data, err := a.ReadBytes(manifestEntry)
	if err != nil {
		return nil, &LoadError{Kind: KindManifestParse, Entry: manifestEntry, Err: err}
	}
	m, err := codec.ParseManifest(manifestEntry, data)
	if err != nil {
		return nil, &LoadError{Kind: KindManifestParse, Entry: manifestEntry, Err: err}
	}
	return m, nil
}

func readArtboard(ctx context.Context, a *archive.Archive, entry model.ManifestEntry) (Artboard, error) {
	name := ArtboardEntry(entry.Path)
	_, span := tracer.Start(ctx, "xd.ReadArtboard")
	defer span.End()
	span.SetAttributes(attribute.String("xd.entry", name))

	data, err := a.ReadBytes(name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return Artboard{}, &LoadError{Kind: KindArtboardParse, Entry: name, Err: err}
	}
	doc, err := codec.ParseArtboard(name, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return Artboard{}, &LoadError{Kind: KindArtboardParse, Entry: name, Err: err}
	}
	return Artboard{Entry: entry, Document: doc}, nil
}

func (o options) fail(span trace.Span, start time.Time, err error) error {
	kind := "unknown"
	var le *LoadError
	if errors.As(err, &le) {
		kind = le.Kind.String()
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	o.metrics.ObserveLoad(kind, 0)
	o.log.Warn("xd load failed",
		zap.String("kind", kind),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
	return err
}

// Resource returns the bytes of the resource meta references. ok is false,
// with a nil error, when meta carries no uid. An error wrapping
// archive.ErrEntryNotFound means the document references a resource the
// container does not hold. Every call re-reads the archive. A nil Document
// reports archive.ErrClosed.
func (d *Document) Resource(meta *model.PatternMeta) (data []byte, ok bool, err error) {
	if d == nil {
		return nil, false, archive.ErrClosed
	}
	uid := meta.UID()
	if uid == "" {
		d.metrics.ObserveResource("absent")
		return nil, false, nil
	}
	data, err = d.archive.ReadBytes(ResourceEntry(uid))
	if err != nil {
		if errors.Is(err, archive.ErrEntryNotFound) {
			d.metrics.ObserveResource("missing")
			d.log.Warn("referenced resource missing from container",
				zap.String("container", d.archive.Name()),
				zap.String("uid", uid),
			)
		} else {
			d.metrics.ObserveResource("error")
		}
		return nil, false, fmt.Errorf("fetch resource %q: %w", uid, err)
	}
	d.metrics.ObserveResource("ok")
	return data, true, nil
}

// StyleResource is Resource for style.fill.pattern.meta.
func (d *Document) StyleResource(s *model.Style) ([]byte, bool, error) {
	return d.Resource(s.PatternMeta())
}

// Close releases the archive. It is safe to call more than once.
func (d *Document) Close() error {
	if d == nil {
		return nil
	}
	return d.archive.Close()
}

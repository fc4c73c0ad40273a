package ownership

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/drafnel/git-blame-stats/pkg/blame"
)

// ErrInvalidIdentity is returned for an unknown identity mode.
var ErrInvalidIdentity = errors.New("invalid identity mode")

// Identity selects which record field names an owner.
type Identity string

const (
	// IdentityName groups lines by author name.
	IdentityName Identity = "name"
	// IdentityEmail groups lines by author e-mail, falling back to the name.
	IdentityEmail Identity = "email"
)

// ParseIdentity validates an identity mode; "" means IdentityName.
func ParseIdentity(s string) (Identity, error) {
	switch Identity(s) {
	case "", IdentityName:
		return IdentityName, nil
	case IdentityEmail:
		return IdentityEmail, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
}

const (
	spanAttribute = "ownership.attribute"
	attrFilePath  = "file.path"
	attrRecords   = "blame.records"
)

// Attributor folds the blame of one file into an AuthorMap.
// It holds no per-call state and may be shared by workers.
type Attributor struct {
	source   blame.Source
	revision string
	identity Identity
	tracer   trace.Tracer
}

// NewAttributor creates an Attributor reading from source at revision.
func NewAttributor(source blame.Source, revision string, identity Identity, tracer trace.Tracer) *Attributor {
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	if identity == "" {
		identity = IdentityName
	}

	return &Attributor{source: source, revision: revision, identity: identity, tracer: tracer}
}

// Attribute blames path and adds its lines to acc.
//
// The first record of a commit decides the owner; git only sends author
// metadata with that record. Every record, including continuation hunks of
// an already seen commit, adds its line count to the owner's slot for path.
func (a *Attributor) Attribute(ctx context.Context, path string, acc AuthorMap) error {
	_, err := a.attribute(ctx, path, acc)

	return err
}

// attribute is Attribute that also reports how many records were folded.
func (a *Attributor) attribute(ctx context.Context, path string, acc AuthorMap) (records int, err error) {
	ctx, span := a.tracer.Start(ctx, spanAttribute, trace.WithAttributes(attribute.String(attrFilePath, path)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	stream, err := a.source.Open(ctx, a.revision, path)
	if err != nil {
		return 0, fmt.Errorf("attribute %s: %w", path, err)
	}

	defer func() {
		closeErr := stream.Close()
		if closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	owners := make(map[string]string)
	parser := blame.NewParser(stream)

	for {
		rec, nextErr := parser.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}

		if nextErr != nil {
			return records, fmt.Errorf("attribute %s: %w", path, nextErr)
		}

		owner, seen := owners[rec.Commit]
		if !seen {
			owner = a.ownerOf(rec)
			owners[rec.Commit] = owner
			acc.slot(owner, path)
		}

		acc[owner][path] += rec.Lines
		records++
	}

	span.SetAttributes(attribute.Int(attrRecords, records))

	return records, nil
}

func (a *Attributor) ownerOf(rec *blame.Record) string {
	if a.identity == IdentityEmail {
		if mail := rec.AuthorMail(); mail != "" {
			return mail
		}
	}

	return rec.Author()
}

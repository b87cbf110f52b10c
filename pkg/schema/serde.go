package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

var (
	ErrTooFewOpts = errors.New("too few options")
)

type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// A serde frames avro payloads with the registry wire header, so
// consumers can resolve the writer schema by ID.
type serde struct {
	srSerde *sr.Serde
}

func (s serde) Encode(v any) ([]byte, error) {
	return s.srSerde.Encode(v)
}

func (s serde) Decode(data []byte, v any) error {
	return s.srSerde.Decode(data, v)
}

type Opt func(*serdeOpts) error

type serdeOpts struct {
	subject string
	si      SchemaIdentifier
}

func SubjectOpt(subject string) Opt {
	return func(so *serdeOpts) error {
		if subject == "" {
			return errors.New("subject is empty string")
		}
		so.subject = subject
		return nil
	}
}

func SchemaIdentifierOpt(sc SchemaIdentifier) Opt {
	return func(so *serdeOpts) error {
		if sc == nil {
			return errors.New("schema identifier is nil")
		}
		so.si = sc
		return nil
	}
}

// NewSerdeOrderPlacedV1 registers [OrderPlacedSchemaTextV1] and returns
// a serde for [OrderPlacedV1]. Both [SubjectOpt] and
// [SchemaIdentifierOpt] are required.
func NewSerdeOrderPlacedV1(ctx context.Context, opts ...Opt) (Serde, error) {
	const op = "NewSerdeOrderPlacedV1"

	s, err := newSerde(ctx, OrderPlacedSchemaTextV1, OrderPlacedV1{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func newSerde(
	ctx context.Context, schemaText string, example any, opts []Opt,
) (serde, error) {
	if len(opts) != 2 {
		return serde{}, ErrTooFewOpts
	}

	var so serdeOpts
	for _, o := range opts {
		if err := o(&so); err != nil {
			return serde{}, err
		}
	}

	avroSchema, err := avro.Parse(schemaText)
	if err != nil {
		return serde{}, err
	}

	id, err := so.si.DetermineID(ctx, so.subject, schemaText)
	if err != nil {
		return serde{}, err
	}

	srSerde := new(sr.Serde)
	srSerde.Register(
		id,
		example,
		sr.EncodeFn(AvroEncodeFn(avroSchema)),
		sr.DecodeFn(AvroDecodeFn(avroSchema)),
	)
	return serde{srSerde}, nil
}

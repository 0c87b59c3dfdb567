package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tripdex/tripdex/internal/db"
)

// CreateIndex issues FT.CREATE for the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := createArgs(def)
	if err != nil {
		return err
	}

	cmd := s.client.B().Arbitrary(db.OpCreateIndex).Args(args...).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if redisErrContains(err, "index already exists") {
			return db.ErrIndexExists
		}
		return opErr(db.OpCreateIndex, err)
	}
	return nil
}

// DropIndex removes an FT index, leaving the underlying hashes in place.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.client.B().Arbitrary(db.OpDropIndex).Args(name).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if redisErrContains(err, "unknown index name") {
			return db.ErrIndexNotFound
		}
		return opErr(db.OpDropIndex, err)
	}
	return nil
}

// IndexExists probes the index via FT.INFO. A "unknown index name" reply is
// the absence signal, not an error.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.client.B().Arbitrary(db.OpIndexInfo).Args(name).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if redisErrContains(err, "unknown index name") {
			return false, nil
		}
		return false, opErr(db.OpIndexInfo, err)
	}
	return true, nil
}

// createArgs flattens an index definition into FT.CREATE argument order:
// name, ON <storage>, PREFIX, then the SCHEMA field list.
func createArgs(def *db.IndexDefinition) ([]string, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	storage := def.StorageType
	if storage == "" {
		storage = db.StorageHash
	}

	args := []string{def.Name, "ON", string(storage)}
	if len(def.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(def.Prefixes)))
		args = append(args, def.Prefixes...)
	}
	args = append(args, "SCHEMA")

	for i := range def.Fields {
		var err error
		args, err = appendSchemaField(args, &def.Fields[i])
		if err != nil {
			return nil, err
		}
	}
	return args, nil
}

func appendSchemaField(args []string, f *db.IndexField) ([]string, error) {
	switch f.Type {
	case db.IndexFieldNumeric:
		return append(args, f.Name, "NUMERIC"), nil

	case db.IndexFieldTag:
		args = append(args, f.Name, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		return args, nil

	case db.IndexFieldVector:
		attrs, err := vectorAttrs(f)
		if err != nil {
			return nil, err
		}
		args = append(args, f.Name, "VECTOR", string(db.VectorHNSW), strconv.Itoa(len(attrs)))
		return append(args, attrs...), nil

	default:
		return nil, fmt.Errorf("unknown field type %q", f.Type)
	}
}

func vectorAttrs(f *db.IndexField) ([]string, error) {
	if f.VectorDim <= 0 {
		return nil, fmt.Errorf("vector DIM must be positive")
	}

	distance := f.VectorDistance
	if distance == "" {
		distance = db.DistanceCosine
	}

	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(f.VectorDim),
		"DISTANCE_METRIC", string(distance),
	}
	if f.VectorM > 0 {
		attrs = append(attrs, "M", strconv.Itoa(f.VectorM))
	}
	if f.VectorEFConstruct > 0 {
		attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(f.VectorEFConstruct))
	}
	return attrs, nil
}

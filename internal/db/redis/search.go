package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/tripdex/tripdex/internal/db"
	"github.com/tripdex/tripdex/internal/domain/filter"
)

const scoreField = "__vector_score"

// SearchKNN runs a KNN vector similarity search via FT.SEARCH. Filters become
// the pre-filter part of the query, so Redis narrows candidates before the
// nearest-neighbor pass.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	cmd := s.client.B().Arbitrary(db.OpSearch).Args(searchArgs(q)...).Build()
	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		if redisErrContains(err, "dimension") {
			return nil, fmt.Errorf("%w: %w", db.ErrDimMismatch, err)
		}
		return nil, opErr(db.OpSearch, err)
	}

	return decodeSearchReply(raw)
}

// searchArgs flattens the query into FT.SEARCH argument order. The explicit
// LIMIT is required: without it the server pages at its default of 10 rows no
// matter how large K is.
func searchArgs(q *db.KNNQuery) []string {
	args := []string{q.IndexName, knnQueryString(q)}
	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(q.K))
	return append(args, "PARAMS", "2", "BLOB", vectorToBytes(q.Vector), "DIALECT", "2")
}

func knnQueryString(q *db.KNNQuery) string {
	knn := fmt.Sprintf("[KNN %d @__vector $BLOB]", q.K)
	if pre := buildFilter(q.Filters); pre != "" {
		return fmt.Sprintf("(%s)=>%s", pre, knn)
	}
	return "*=>" + knn
}

// decodeSearchReply parses the RESP2 FT.SEARCH reply:
// [total, key1, fields1, key2, fields2, ...].
func decodeSearchReply(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		pairs, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		entries = append(entries, decodeEntry(key, pairs))
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func decodeEntry(key string, pairs []rueidis.RedisMessage) db.SearchEntry {
	fields := make(map[string]string, len(pairs)/2)
	for j := 0; j+1 < len(pairs); j += 2 {
		name, err := pairs[j].ToString()
		if err != nil {
			continue
		}
		value, err := pairs[j+1].ToString()
		if err != nil {
			continue
		}
		fields[name] = value
	}

	entry := db.SearchEntry{Key: key, Fields: fields}
	if raw, ok := fields[scoreField]; ok {
		if dist, err := strconv.ParseFloat(raw, 64); err == nil {
			// cosine distance -> similarity, clamped to [0,1]
			entry.Score = max(0, 1.0-dist)
		}
		delete(fields, scoreField)
	}
	return entry
}

// --- Filter building ---

// buildFilter translates filter.Expression into an FT.SEARCH pre-filter query
// string. Conditions are joined with spaces (AND semantics).
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, len(expr.Conditions()))
	for _, cond := range expr.Conditions() {
		switch {
		case cond.IsMatch():
			parts = append(parts, buildTagFilter(cond.Key(), cond.Match()))
		case cond.IsRange():
			parts = append(parts, buildNumericFilter(cond.Key(), *cond.Range()))
		}
	}

	return strings.Join(parts, " ")
}

// tagEscaper escapes RediSearch TAG special characters.
var tagEscaper = strings.NewReplacer(
	",", "\\,", ".", "\\.", "<", "\\<", ">", "\\>", "{", "\\{", "}", "\\}",
	"[", "\\[", "]", "\\]", "\"", "\\\"", "'", "\\'", ":", "\\:", ";", "\\;",
	"!", "\\!", "@", "\\@", "#", "\\#", "$", "\\$", "%", "\\%", "^", "\\^",
	"&", "\\&", "*", "\\*", "(", "\\(", ")", "\\)", "-", "\\-", "+", "\\+",
	"=", "\\=", "~", "\\~", "|", "\\|", "/", "\\/", " ", "\\ ",
)

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

func buildNumericFilter(key string, r filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"
	if r.GTE() != nil {
		minBound = fmt.Sprintf("%g", *r.GTE())
	}
	if r.LTE() != nil {
		maxBound = fmt.Sprintf("%g", *r.LTE())
	}
	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

// vectorToBytes serializes []float32 to the little-endian binary string
// FT.SEARCH expects in PARAMS.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

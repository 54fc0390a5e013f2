package faqstore

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

const defaultTopLimit = 10

// ValkeyStore keeps query statistics in sorted sets on a Valkey-compatible server.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// IncrementQuery implements faq.Store.
func (s *ValkeyStore) IncrementQuery(ctx context.Context, canonical, display string) error {
	return s.increment(ctx, s.trendingKey(), canonical, display)
}

// TopQueries implements faq.Store.
func (s *ValkeyStore) TopQueries(ctx context.Context, limit int) ([]faq.TrendingQuery, error) {
	return s.top(ctx, s.trendingKey(), limit)
}

// RecordUnanswered implements faq.Store.
func (s *ValkeyStore) RecordUnanswered(ctx context.Context, canonical, display string) error {
	return s.increment(ctx, s.unansweredKey(), canonical, display)
}

// TopUnanswered implements faq.Store.
func (s *ValkeyStore) TopUnanswered(ctx context.Context, limit int) ([]faq.UnansweredQuery, error) {
	top, err := s.top(ctx, s.unansweredKey(), limit)
	if err != nil {
		return nil, err
	}
	out := make([]faq.UnansweredQuery, len(top))
	for i, item := range top {
		out[i] = faq.UnansweredQuery(item)
	}
	return out, nil
}

func (s *ValkeyStore) increment(ctx context.Context, key, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	if err := s.client.Do(ctx, s.client.B().Zincrby().Key(key).Increment(1).Member(canonical).Build()).Error(); err != nil {
		return err
	}
	if display != "" {
		// NX keeps the first phrasing a user typed
		_ = s.client.Do(ctx, s.client.B().Set().Key(s.displayKey(canonical)).Value(display).Nx().Build()).Error()
	}
	return nil
}

func (s *ValkeyStore) top(ctx context.Context, key string, limit int) ([]faq.TrendingQuery, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(key).Start(0).Stop(int64(limit-1)).Withscores().Build())
	arr, err := resp.ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	members, err := parseScoredMembers(wrapReplies(arr))
	if err != nil {
		return nil, err
	}
	out := make([]faq.TrendingQuery, 0, len(members))
	for _, m := range members {
		out = append(out, faq.TrendingQuery{Query: s.fetchDisplay(ctx, m.member), Count: int64(m.score)})
	}
	return out, nil
}

type scoredMember struct {
	member string
	score  float64
}

// reply is the part of a Valkey reply parseScoredMembers reads.
type reply interface {
	str() (string, error)
	float() (float64, error)
	elements() ([]reply, error)
}

type valkeyReply struct {
	msg *valkey.ValkeyMessage
}

func (r valkeyReply) str() (string, error) {
	return r.msg.ToString()
}

func (r valkeyReply) float() (float64, error) {
	return r.msg.ToFloat64()
}

func (r valkeyReply) elements() ([]reply, error) {
	arr, err := r.msg.ToArray()
	if err != nil {
		return nil, err
	}
	return wrapReplies(arr), nil
}

func wrapReplies(arr []valkey.ValkeyMessage) []reply {
	out := make([]reply, len(arr))
	for i := range arr {
		out[i] = valkeyReply{msg: &arr[i]}
	}
	return out
}

// parseScoredMembers accepts both RESP3 ([member, score] pairs) and RESP2
// (flat alternating array) replies to ZREVRANGE WITHSCORES. A trailing
// member without a score is dropped.
func parseScoredMembers(arr []reply) ([]scoredMember, error) {
	out := make([]scoredMember, 0, len(arr))
	for i := 0; i < len(arr); {
		if tuple, tupleErr := arr[i].elements(); tupleErr == nil && len(tuple) == 2 {
			member, err := tuple[0].str()
			if err != nil {
				return nil, err
			}
			score, err := tuple[1].float()
			if err != nil {
				return nil, err
			}
			out = append(out, scoredMember{member: member, score: score})
			i++
			continue
		}
		if i+1 >= len(arr) {
			break
		}
		member, err := arr[i].str()
		if err != nil {
			return nil, err
		}
		score, err := arr[i+1].float()
		if err != nil {
			return nil, err
		}
		out = append(out, scoredMember{member: member, score: score})
		i += 2
	}
	return out, nil
}

func (s *ValkeyStore) fetchDisplay(ctx context.Context, canonical string) string {
	resp := s.client.Do(ctx, s.client.B().Get().Key(s.displayKey(canonical)).Build())
	display, err := resp.ToString()
	if err != nil || display == "" {
		return canonical
	}
	return display
}

func (s *ValkeyStore) trendingKey() string {
	return fmt.Sprintf("%s:trending", s.prefix)
}

func (s *ValkeyStore) unansweredKey() string {
	return fmt.Sprintf("%s:unanswered", s.prefix)
}

func (s *ValkeyStore) displayKey(canonical string) string {
	return fmt.Sprintf("%s:display:%s", s.prefix, canonical)
}

var _ faq.Store = (*ValkeyStore)(nil)

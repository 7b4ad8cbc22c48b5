package location

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type fakeRepo struct {
	locations map[uuid.UUID]*Location
	rules     map[uuid.UUID]*Rule
	listCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{locations: map[uuid.UUID]*Location{}, rules: map[uuid.UUID]*Rule{}}
}

func (f *fakeRepo) CreateLocation(ctx context.Context, loc *Location) error {
	cp := *loc
	f.locations[loc.ID] = &cp
	return nil
}

func (f *fakeRepo) GetLocation(ctx context.Context, id uuid.UUID) (*Location, error) {
	loc, ok := f.locations[id]
	if !ok {
		return nil, ErrLocationNotFound
	}
	cp := *loc
	return &cp, nil
}

func (f *fakeRepo) ListLocationsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Location, error) {
	var out []Location
	for _, l := range f.locations {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateLocation(ctx context.Context, loc *Location) error {
	if _, ok := f.locations[loc.ID]; !ok {
		return ErrLocationNotFound
	}
	cp := *loc
	f.locations[loc.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.locations[id]; !ok {
		return ErrLocationNotFound
	}
	delete(f.locations, id)
	for rid, r := range f.rules {
		if r.LocationID == id {
			delete(f.rules, rid)
		}
	}
	return nil
}

func (f *fakeRepo) CreateRule(ctx context.Context, rule *Rule) error {
	if _, ok := f.locations[rule.LocationID]; !ok {
		return ErrLocationNotFound
	}
	cp := *rule
	f.rules[rule.ID] = &cp
	return nil
}

func (f *fakeRepo) GetRule(ctx context.Context, locationID, ruleID uuid.UUID) (*Rule, error) {
	r, ok := f.rules[ruleID]
	if !ok || r.LocationID != locationID {
		return nil, ErrRuleNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) ListRules(ctx context.Context, locationID uuid.UUID) ([]Rule, error) {
	f.listCalls++
	var out []Rule
	for _, r := range f.rules {
		if r.LocationID == locationID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (f *fakeRepo) UpdateRule(ctx context.Context, rule *Rule) error {
	if _, ok := f.rules[rule.ID]; !ok {
		return ErrRuleNotFound
	}
	cp := *rule
	f.rules[rule.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteRule(ctx context.Context, locationID, ruleID uuid.UUID) error {
	r, ok := f.rules[ruleID]
	if !ok || r.LocationID != locationID {
		return ErrRuleNotFound
	}
	delete(f.rules, ruleID)
	return nil
}

// fakeRedis implements redisClient over a map
type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.failGet {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

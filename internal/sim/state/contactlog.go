package state

import (
	"fmt"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
)

// ContactRecord is the running history of one path on one band.
type ContactRecord struct {
	Key           string               `json:"key"`
	BandID        string               `json:"band"`
	PathMode      propagation.PathMode `json:"path_mode"`
	Source        string               `json:"source"`
	Target        string               `json:"target"`
	LastStrength  float64              `json:"last_strength"`
	LastSuccess   bool                 `json:"last_success"`
	LastEvaluated time.Time            `json:"last_evaluated"`
	Evaluations   int                  `json:"evaluations"`
	Openings      int                  `json:"openings"`
}

// DefaultContactLogSize bounds the number of paths a ContactLog remembers.
const DefaultContactLogSize = 1024

// ContactLog is a concurrency-safe store of ContactRecords keyed by path.
// Once full, the least recently evaluated path is evicted.
type ContactLog struct {
	mu     sync.Mutex
	byPath *lru.Cache
}

// NewContactLog creates an empty log holding at most size paths. A
// non-positive size selects DefaultContactLogSize.
func NewContactLog(size int) *ContactLog {
	if size <= 0 {
		size = DefaultContactLogSize
	}
	cache, _ := lru.New(size)
	return &ContactLog{byPath: cache}
}

func placeKey(l geo.Location) string {
	if l.Code != "" {
		return l.Code
	}
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

func placeName(l geo.Location) string {
	if l.Name != "" {
		return l.Name
	}
	return placeKey(l)
}

// ContactKey identifies a path: band, mode and both endpoints.
func ContactKey(src, dst geo.Location, bandID string, mode propagation.PathMode) string {
	return bandID + "/" + string(mode) + "/" + placeKey(src) + ">" + placeKey(dst)
}

// Record folds an evaluated result into the log. Failed requests are not
// recorded.
func (c *ContactLog) Record(res propagation.Result) {
	if res.Failure != propagation.FailureNone {
		return
	}
	req := res.Request
	key := ContactKey(req.Source, req.Target, req.BandID, res.PathMode)

	c.mu.Lock()
	defer c.mu.Unlock()

	var rec *ContactRecord
	if v, ok := c.byPath.Get(key); ok {
		rec = v.(*ContactRecord)
	} else {
		rec = &ContactRecord{
			Key:      key,
			BandID:   req.BandID,
			PathMode: res.PathMode,
			Source:   placeName(req.Source),
			Target:   placeName(req.Target),
		}
		c.byPath.Add(key, rec)
	}
	rec.LastStrength = res.SignalStrength
	rec.LastSuccess = res.Success
	rec.LastEvaluated = req.Time
	rec.Evaluations++
	if res.Success {
		rec.Openings++
	}
}

// Get returns a copy of the record for key.
func (c *ContactLog) Get(key string) (ContactRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.byPath.Peek(key)
	if !ok {
		return ContactRecord{}, false
	}
	return *v.(*ContactRecord), true
}

// Len reports how many paths the log holds.
func (c *ContactLog) Len() int {
	return c.byPath.Len()
}

// List returns copies of every record ordered by key.
func (c *ContactLog) List() []ContactRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.byPath.Keys()
	out := make([]ContactRecord, 0, len(keys))
	for _, k := range keys {
		if v, ok := c.byPath.Peek(k); ok {
			out = append(out, *v.(*ContactRecord))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Reset drops every record.
func (c *ContactLog) Reset() {
	c.byPath.Purge()
}

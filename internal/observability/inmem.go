package observability

import "sync"

type observe struct {
	Kind    string  `json:"kind"`
	Label   string  `json:"label,omitempty"`
	Method  string  `json:"method,omitempty"`
	Route   string  `json:"route,omitempty"`
	Status  int     `json:"status,omitempty"`
	DurMs   float64 `json:"dur_ms,omitempty"`
	CacheMs float64 `json:"cache_ms,omitempty"`
	DBMs    float64 `json:"db_ms,omitempty"`
	OK      bool    `json:"ok"`
}

type Totals struct {
	CacheHits   int            `json:"cache_hits"`
	CacheMisses int            `json:"cache_misses"`
	Fetches     map[string]int `json:"fetches"`
	Renders     map[string]int `json:"renders"`
	Notified    int            `json:"notified"`
	NotifyFails int            `json:"notify_failures"`
}

// Snapshot is what the debug endpoint serves.
type Snapshot struct {
	Totals Totals     `json:"totals"`
	Last   []*observe `json:"last"`
}

// Inmem keeps the last max observations plus running totals.
type Inmem struct {
	mu     sync.Mutex
	last   []*observe
	max    int
	totals struct {
		cacheHits, cacheMiss  int
		notified, notifyFails int
		fetches, renders      map[string]int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max: max,
	}
}

func (m *Inmem) push(v *observe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[len(m.last)-m.max:]
	}
}

func (m *Inmem) ObserveFetch(outcome string, durMs float64) {
	m.mu.Lock()
	if m.totals.fetches == nil {
		m.totals.fetches = make(map[string]int)
	}
	m.totals.fetches[outcome]++
	m.mu.Unlock()

	m.push(&observe{Kind: "fetch", Label: outcome, DurMs: durMs, OK: outcome == "ok"})
}

func (m *Inmem) ObserveRender(trigger string) {
	m.mu.Lock()
	if m.totals.renders == nil {
		m.totals.renders = make(map[string]int)
	}
	m.totals.renders[trigger]++
	m.mu.Unlock()

	m.push(&observe{Kind: "render", Label: trigger})
}

func (m *Inmem) ObserveNotify(trigger string, ok bool) {
	m.mu.Lock()
	if ok {
		m.totals.notified++
	} else {
		m.totals.notifyFails++
	}
	m.mu.Unlock()

	m.push(&observe{Kind: "notify", Label: trigger, OK: ok})
}

func (m *Inmem) ObserveLookup(source string, cacheMs, dbMs float64) {
	m.push(&observe{Kind: "lookup", Label: source, CacheMs: cacheMs, DBMs: dbMs, OK: source != ""})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(&observe{Kind: "http", Method: method, Route: route, Status: status, DurMs: durMs, OK: status < 500})
}

func (m *Inmem) ObserveEvent(processMs float64, ok bool) {
	m.push(&observe{Kind: "event", DurMs: processMs, OK: ok})
}

func (m *Inmem) IncCacheHit() {
	m.mu.Lock()
	m.totals.cacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.cacheMiss++
	m.mu.Unlock()
}

func (m *Inmem) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	last := make([]*observe, len(m.last))
	copy(last, m.last)

	return Snapshot{
		Totals: Totals{
			CacheHits:   m.totals.cacheHits,
			CacheMisses: m.totals.cacheMiss,
			Fetches:     copyCounts(m.totals.fetches),
			Renders:     copyCounts(m.totals.renders),
			Notified:    m.totals.notified,
			NotifyFails: m.totals.notifyFails,
		},
		Last: last,
	}
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

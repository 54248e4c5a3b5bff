package observability

type Metrics interface {
	ObserveFetch(outcome string, durMs float64)
	ObserveRender(trigger string)
	ObserveNotify(trigger string, ok bool)
	ObserveLookup(source string, cacheMs, dbMs float64)
	ObserveHTTP(method, route string, status int, durMs float64)
	ObserveEvent(processMs float64, ok bool)
	IncCacheHit()
	IncCacheMiss()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveFetch(string, float64)             {}
func (Noop) ObserveRender(string)                     {}
func (Noop) ObserveNotify(string, bool)               {}
func (Noop) ObserveLookup(string, float64, float64)   {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) ObserveEvent(float64, bool)               {}
func (Noop) IncCacheHit()                             {}
func (Noop) IncCacheMiss()                            {}

package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one search invocation: how much oracle work it
// issued and how much of the request survived budget planning.
type SearchMetric struct {
	SearchID         string
	Mode             string
	RequestedPeriods int
	ActualPeriods    int
	HorizonReduced   bool
	Scenarios        int
	Batches          int
	OracleCalls      int
	Fallbacks        int
	StartTime        time.Time
	Duration         time.Duration
}

type Collector interface {
	Start(searchID, mode string, requestedPeriods int)
	SetHorizon(actual int, reduced bool)
	SetScenarios(scenarios, batches int)
	AddOracleCall()
	AddFallback()
	Complete() SearchMetric
}

type collector struct {
	searchID         string
	mode             string
	requestedPeriods int
	actualPeriods    int
	horizonReduced   bool
	scenarios        int
	batches          int
	startTime        time.Time
	oracleCalls      atomic.Int32
	fallbacks        atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(searchID, mode string, requestedPeriods int) {
	c.searchID = searchID
	c.mode = mode
	c.requestedPeriods = requestedPeriods
	c.startTime = time.Now()
}

func (c *collector) SetHorizon(actual int, reduced bool) {
	c.actualPeriods = actual
	c.horizonReduced = reduced
}

func (c *collector) SetScenarios(scenarios, batches int) {
	c.scenarios = scenarios
	c.batches = batches
}

func (c *collector) AddOracleCall() {
	c.oracleCalls.Add(1)
}

func (c *collector) AddFallback() {
	c.fallbacks.Add(1)
}

func (c *collector) Complete() SearchMetric {
	return SearchMetric{
		SearchID:         c.searchID,
		Mode:             c.mode,
		RequestedPeriods: c.requestedPeriods,
		ActualPeriods:    c.actualPeriods,
		HorizonReduced:   c.horizonReduced,
		Scenarios:        c.scenarios,
		Batches:          c.batches,
		OracleCalls:      int(c.oracleCalls.Load()),
		Fallbacks:        int(c.fallbacks.Load()),
		StartTime:        c.startTime,
		Duration:         time.Since(c.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (d *dummyCollector) Start(searchID, mode string, requestedPeriods int) {}
func (d *dummyCollector) SetHorizon(actual int, reduced bool)               {}
func (d *dummyCollector) SetScenarios(scenarios, batches int)               {}
func (d *dummyCollector) AddOracleCall()                                    {}
func (d *dummyCollector) AddFallback()                                      {}
func (d *dummyCollector) Complete() SearchMetric                            { return SearchMetric{} }

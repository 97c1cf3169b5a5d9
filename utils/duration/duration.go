package duration

import (
	"sync"
	"time"

	"gitlab.grandhoo.com/rock/rock_cfd/utils"
)

// Duration 可重入的累计计时器, 嵌套的 Enter/Exit 只计一次
type Duration struct {
	initTime   int64 // ns
	tick       int64 // ns
	accumulate int64 // ns
	reentrant  int
	mu         sync.RWMutex
}

func (d *Duration) Enter() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reentrant == 0 {
		d.tick = time.Now().UnixNano()
		if d.initTime == 0 {
			d.initTime = d.tick
		}
	}
	d.reentrant++
}

func (d *Duration) Exit() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reentrant--
	if d.reentrant == 0 {
		d.accumulate += time.Now().UnixNano() - d.tick
	}
}

func (d *Duration) Accumulation() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.reentrant == 0 {
		return d.accumulate
	}
	return d.accumulate + time.Now().UnixNano() - d.tick
}

func (d *Duration) DurationString() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.initTime == 0 {
		return utils.PeriodString(0)
	}
	return utils.PeriodString(time.Now().UnixNano() - d.initTime)
}

func (d *Duration) AccumulationString() string {
	return utils.PeriodString(d.Accumulation())
}

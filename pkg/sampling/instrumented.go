package sampling

import (
	"time"

	"github.com/fmsampling/variant-sampler/pkg/sampling/configuration"
)

type InstrumentedSampler struct {
	sampler               Sampler
	successMetricsEmitter func(time.Duration)
	failureMetricsEmitter func(time.Duration)
}

var _ Sampler = &InstrumentedSampler{}

func NewInstrumentedSampler(sampler Sampler, successMetricsEmitter, failureMetricsEmitter func(time.Duration)) *InstrumentedSampler {
	return &InstrumentedSampler{
		sampler:               sampler,
		successMetricsEmitter: successMetricsEmitter,
		failureMetricsEmitter: failureMetricsEmitter,
	}
}

func (is *InstrumentedSampler) Sample(strategy Strategy, sampleSize int) ([]*configuration.Configuration, error) {
	start := time.Now()
	configs, err := is.sampler.Sample(strategy, sampleSize)
	if err != nil {
		is.failureMetricsEmitter(time.Since(start))
	} else {
		is.successMetricsEmitter(time.Since(start))
	}
	return configs, err
}

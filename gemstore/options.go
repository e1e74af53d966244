package gemstore

import (
	"github.com/hupe1980/gemgo"
	"github.com/hupe1980/gemgo/codec"
	"github.com/hupe1980/gemgo/resource"
)

type options struct {
	codec            codec.Codec
	compression      Compression
	rc               *resource.Controller
	prefix           string
	noOverwrite      bool
	logger           *gemgo.Logger
	metricsCollector gemgo.MetricsCollector
}

// Option configures a Store.
type Option func(*options)

// WithCodec sets the codec used for decks and manifests. Default is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression forces the compression used by Save. Loads always follow
// the name suffix.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithResourceController bounds concurrent loads, memory and read
// throughput.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithPrefix places every blob the store touches under prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithNoOverwrite makes Save and SaveOrder fail with blobstore.ErrConflict
// instead of replacing an existing blob. The backend must implement
// blobstore.ConditionalPutter.
func WithNoOverwrite() Option {
	return func(o *options) {
		o.noOverwrite = true
	}
}

// WithLogger sets the logger for load events.
func WithLogger(l *gemgo.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = gemgo.NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the collector that receives load metrics.
func WithMetricsCollector(mc gemgo.MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = gemgo.NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

package ci

import (
	"fmt"
	"sort"
	"sync"

	errUtils "github.com/cloudposse/buildcheck/errors"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

// Transport names.
const (
	TransportGeneric  = "generic"
	TransportDirect   = "github"
	TransportDispatch = "github-dispatch"
)

// TransportFactory builds a transport from the job configuration.
type TransportFactory func(cfg *schema.Configuration) (Transport, error)

var (
	transportsMu sync.RWMutex
	transports   = make(map[string]TransportFactory)
)

// Register registers a transport factory.
// Providers should call this in their init() function.
func Register(name string, factory TransportFactory) {
	transportsMu.Lock()
	defer transportsMu.Unlock()
	transports[name] = factory
}

// Get builds the transport registered under name.
func Get(name string, cfg *schema.Configuration) (Transport, error) {
	transportsMu.RLock()
	factory, ok := transports[name]
	transportsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", errUtils.ErrTransportNotFound, name)
	}
	return factory(cfg)
}

// List returns all registered transport names, sorted.
func List() []string {
	transportsMu.RLock()
	defer transportsMu.RUnlock()

	names := make([]string, 0, len(transports))
	for name := range transports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TransportName picks the transport for cfg. Checks disabled or not running
// in GitHub Actions selects the generic transport; async selects the
// workflow-dispatch transport.
func TransportName(cfg *schema.Configuration) string {
	switch {
	case !cfg.Check.Enabled || !cfg.GitHub.Actions:
		return TransportGeneric
	case cfg.Check.Async:
		return TransportDispatch
	default:
		return TransportDirect
	}
}

// SelectTransport builds the transport for the job. It is called once per job.
func SelectTransport(cfg *schema.Configuration) (Transport, error) {
	name := TransportName(cfg)
	log.Debug("Selected check run transport", "transport", name)
	return Get(name, cfg)
}

package sim

import (
	"context"

	"github.com/san-kum/telesim/internal/instrument"
	"github.com/san-kum/telesim/internal/logging"
	"github.com/san-kum/telesim/internal/pointing"
	"github.com/san-kum/telesim/internal/site"
)

// Generator produces the raw per-detector signals of a simulation. The
// returned map is signal name -> [detector][sample].
type Generator interface {
	Name() string
	Generate(ctx context.Context, s *Simulation) (map[string][][]float64, error)
}

// TransmissionProvider is implemented by generators that model atmospheric
// attenuation. The series is read after Generate returns.
type TransmissionProvider interface {
	AtmosphericTransmission() []float64
}

type State int

const (
	Unconstructed State = iota
	Constructed
)

func (s State) String() string {
	if s == Constructed {
		return "constructed"
	}
	return "unconstructed"
}

const (
	DefaultInstrument  = "default"
	DefaultScanPattern = "stare"
	DefaultSite        = "default"
)

// Options configure a Simulation. Each collaborator is taken as a prebuilt
// object when set, otherwise looked up by name with routed overrides.
type Options struct {
	Instrument     *instrument.Instrument
	InstrumentName string
	Pointing       *pointing.Pointing
	ScanPattern    string
	Site           *site.Site
	SiteName       string

	// Overrides are keyword arguments routed to the instrument, pointing
	// and site namespaces.
	Overrides map[string]interface{}

	// Strict rejects override keys no namespace accepts.
	Strict bool

	// FailOnKinematicLimit turns kinematic warnings into construction errors.
	FailOnKinematicLimit bool

	Generator Generator
	Logger    logging.Logger

	Instruments *instrument.Registry
	Sites       *site.Registry
}

package epr

import (
	"math"
	"reflect"
	"strings"

	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/infofile"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// Record is the unified metadata of a dataset. Physical quantities carry a
// unit; a quantity without unit is unset.
type Record struct {
	General            General            `yaml:"general"`
	Sample             Sample             `yaml:"sample"`
	MagneticField      MagneticField      `yaml:"magnetic_field"`
	Bridge             Bridge             `yaml:"bridge"`
	SignalChannel      SignalChannel      `yaml:"signal_channel"`
	Experiment         Experiment         `yaml:"experiment"`
	Spectrometer       Spectrometer       `yaml:"spectrometer"`
	TemperatureControl TemperatureControl `yaml:"temperature_control"`
	Probehead          Probehead          `yaml:"probehead"`
}

type General struct {
	Title     string `yaml:"title"`
	Operator  string `yaml:"operator"`
	Date      string `yaml:"date"`
	DateStart string `yaml:"date_start"`
	DateEnd   string `yaml:"date_end"`
	TimeStart string `yaml:"time_start"`
	TimeEnd   string `yaml:"time_end"`
	Purpose   string `yaml:"purpose"`
	Comment   string `yaml:"comment"`
}

type Sample struct {
	Name        string `yaml:"name"`
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Solvent     string `yaml:"solvent"`
	Preparation string `yaml:"preparation"`
}

type MagneticField struct {
	FieldMin   axis.Quantity `yaml:"field_min"`
	FieldMax   axis.Quantity `yaml:"field_max"`
	SweepWidth axis.Quantity `yaml:"sweep_width"`
	StepWidth  axis.Quantity `yaml:"step_width"`
	StepCount  int           `yaml:"step_count"`
	SweepTime  axis.Quantity `yaml:"sweep_time"`
	Sequence   string        `yaml:"sequence"`
	Controller string        `yaml:"controller"`
}

type Bridge struct {
	MWFrequency axis.Quantity `yaml:"mw_frequency"`
	Power       axis.Quantity `yaml:"power"`
	Attenuation axis.Quantity `yaml:"attenuation"`
	QValue      float64       `yaml:"q_value"`
	Model       string        `yaml:"model"`
	Detection   string        `yaml:"detection"`
}

type SignalChannel struct {
	ModulationAmplitude axis.Quantity `yaml:"modulation_amplitude"`
	ModulationFrequency axis.Quantity `yaml:"modulation_frequency"`
	ReceiverGain        float64       `yaml:"receiver_gain"`
	TimeConstant        axis.Quantity `yaml:"time_constant"`
	ConversionTime      axis.Quantity `yaml:"conversion_time"`
	Phase               axis.Quantity `yaml:"phase"`
	Accumulations       int           `yaml:"accumulations"`
	Model               string        `yaml:"model"`
}

type Experiment struct {
	Type     string `yaml:"type"`
	Runs     int    `yaml:"runs"`
	Harmonic int    `yaml:"harmonic"`
}

type Spectrometer struct {
	Model    string `yaml:"model"`
	Software string `yaml:"software"`
}

type TemperatureControl struct {
	Temperature axis.Quantity `yaml:"temperature"`
	Controller  string        `yaml:"controller"`
	Cryostat    string        `yaml:"cryostat"`
	Cryogen     string        `yaml:"cryogen"`
}

type Probehead struct {
	Type     string `yaml:"type"`
	Model    string `yaml:"model"`
	Coupling string `yaml:"coupling"`
}

var quantityType = reflect.TypeOf(axis.Quantity{})

// project fills a Record from a merged metadata tree. Sections are matched
// case-insensitively by their yaml name; keys within a section are matched
// after lower-casing and joining words with underscores. Values that cannot
// be interpreted for their field are left unset.
func project(root *metadata.Node) *Record {
	rec := &Record{}
	rv := reflect.ValueOf(rec).Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		section := findKey(root, rt.Field(i).Tag.Get("yaml"), strings.ToLower)
		if section == nil || !section.IsMapping() {
			continue
		}
		projectSection(section, rv.Field(i))
	}
	return rec
}

func projectSection(section *metadata.Node, sv reflect.Value) {
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		n := findKey(section, st.Field(i).Tag.Get("yaml"), infofile.NormalizeKey)
		if n == nil {
			continue
		}
		setField(sv.Field(i), n)
	}
}

func findKey(n *metadata.Node, name string, normalize func(string) string) *metadata.Node {
	for _, k := range n.Keys() {
		if normalize(k) == name {
			child, _ := n.Get(k)
			return child
		}
	}
	return nil
}

func setField(f reflect.Value, n *metadata.Node) {
	if f.Type() == quantityType {
		q, err := n.Quantity("")
		if err == nil && q.IsSet() {
			f.Set(reflect.ValueOf(q))
		}
		return
	}

	switch f.Kind() {
	case reflect.String:
		if !n.IsMapping() {
			f.SetString(n.Text())
		}
	case reflect.Int:
		if q, err := n.Quantity(""); err == nil {
			f.SetInt(int64(math.Round(q.Value)))
		}
	case reflect.Float64:
		if q, err := n.Quantity(""); err == nil {
			f.SetFloat(q.Value)
		}
	}
}

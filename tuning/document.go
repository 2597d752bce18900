package tuning

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Format identifies a parameter file encoding
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a format name as accepted on the command line
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unknown parameter format %q", name)
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, fmt.Errorf("parameter file %q has no extension", path)
	}
	return ParseFormat(ext)
}

// Document mirrors, pointer-typed so an absent key is distinguishable from zero

type document struct {
	Chassis    chassisDoc    `toml:"chassis" yaml:"chassis"`
	Suspension suspensionDoc `toml:"suspension" yaml:"suspension"`
	Tire       tireDoc       `toml:"tire" yaml:"tire"`
	Steering   steeringDoc   `toml:"steering" yaml:"steering"`
	Engine     engineDoc     `toml:"engine" yaml:"engine"`
	Brakes     brakesDoc     `toml:"brakes" yaml:"brakes"`
	Aero       aeroDoc       `toml:"aero" yaml:"aero"`
	Skid       skidDoc       `toml:"skid" yaml:"skid"`
}

type chassisDoc struct {
	Mass         *float64 `toml:"mass" yaml:"mass" comment:"kg"`
	YawInertia   *float64 `toml:"yaw_inertia" yaml:"yaw_inertia" comment:"kg m^2"`
	PitchInertia *float64 `toml:"pitch_inertia" yaml:"pitch_inertia"`
	RollInertia  *float64 `toml:"roll_inertia" yaml:"roll_inertia"`
	Wheelbase    *float64 `toml:"wheelbase" yaml:"wheelbase" comment:"m"`
	TrackWidth   *float64 `toml:"track_width" yaml:"track_width"`
	ComOffset    *float64 `toml:"com_offset" yaml:"com_offset" comment:"m ahead of wheelbase midpoint"`
	ComHeight    *float64 `toml:"com_height" yaml:"com_height"`
	Gravity      *float64 `toml:"gravity" yaml:"gravity"`
}

type suspensionDoc struct {
	FrontStiffness *float64 `toml:"front_stiffness" yaml:"front_stiffness" comment:"N/m per wheel"`
	RearStiffness  *float64 `toml:"rear_stiffness" yaml:"rear_stiffness"`
	FrontDamping   *float64 `toml:"front_damping" yaml:"front_damping" comment:"N s/m per wheel"`
	RearDamping    *float64 `toml:"rear_damping" yaml:"rear_damping"`
}

type tireDoc struct {
	PeakFriction      *float64 `toml:"peak_friction" yaml:"peak_friction"`
	LongStiffness     *float64 `toml:"longitudinal_stiffness" yaml:"longitudinal_stiffness" comment:"magic formula B"`
	LatStiffness      *float64 `toml:"lateral_stiffness" yaml:"lateral_stiffness"`
	LongShape         *float64 `toml:"longitudinal_shape" yaml:"longitudinal_shape" comment:"magic formula C"`
	LatShape          *float64 `toml:"lateral_shape" yaml:"lateral_shape"`
	Curvature         *float64 `toml:"curvature" yaml:"curvature" comment:"magic formula E"`
	Radius            *float64 `toml:"radius" yaml:"radius"`
	WheelInertia      *float64 `toml:"wheel_inertia" yaml:"wheel_inertia"`
	RollingResistance *float64 `toml:"rolling_resistance" yaml:"rolling_resistance"`
}

type steeringDoc struct {
	MaxSteer  *float64 `toml:"max_steer" yaml:"max_steer" comment:"rad"`
	SteerRate *float64 `toml:"steer_rate" yaml:"steer_rate" comment:"rad/s"`
	Ackermann *float64 `toml:"ackermann" yaml:"ackermann" comment:"0 parallel, 1 full"`
}

type torquePointDoc struct {
	RPM    *float64 `toml:"rpm" yaml:"rpm"`
	Torque *float64 `toml:"torque" yaml:"torque"`
}

type engineDoc struct {
	IdleRPM     *float64         `toml:"idle_rpm" yaml:"idle_rpm"`
	RedlineRPM  *float64         `toml:"redline_rpm" yaml:"redline_rpm"`
	DriveRatio  *float64         `toml:"drive_ratio" yaml:"drive_ratio" comment:"crank to wheel"`
	RearBias    *float64         `toml:"rear_bias" yaml:"rear_bias" comment:"0 front drive, 1 rear drive"`
	TorqueCurve []torquePointDoc `toml:"torque_curve" yaml:"torque_curve"`
}

type brakesDoc struct {
	BrakeTorque     *float64 `toml:"brake_torque" yaml:"brake_torque" comment:"N m total"`
	FrontBias       *float64 `toml:"front_bias" yaml:"front_bias"`
	HandbrakeTorque *float64 `toml:"handbrake_torque" yaml:"handbrake_torque"`
}

type aeroDoc struct {
	Drag *float64 `toml:"drag" yaml:"drag"`
}

type skidDoc struct {
	Threshold *float64 `toml:"threshold" yaml:"threshold"`
	FullSlip  *float64 `toml:"full_slip" yaml:"full_slip"`
}

// Parse decodes and validates a parameter document
// Every problem found is reported; the result is nil whenever err is non-nil
func Parse(data []byte, format Format) (*ParameterSet, error) {
	var doc document
	if err := decode(data, format, &doc); err != nil {
		return nil, err
	}

	p, err := doc.resolve()
	if err != nil {
		return nil, err
	}
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func decode(data []byte, format Format, doc *document) error {
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				var errs error
				for i := range strict.Errors {
					key := strings.Join(strict.Errors[i].Key(), ".")
					errs = multierr.Append(errs, fmt.Errorf("%s: unknown field", key))
				}
				return errs
			}
			return fmt.Errorf("decode toml: %w", err)
		}
		return nil

	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("decode yaml: empty document")
			}
			return fmt.Errorf("decode yaml: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported format %v", format)
}

// fieldReader collects missing-field errors while dereferencing a document
type fieldReader struct {
	errs error
}

func (r *fieldReader) num(key string, v *float64) float64 {
	if v == nil {
		r.errs = multierr.Append(r.errs, fmt.Errorf("%s: missing", key))
		return 0
	}
	return *v
}

func (d *document) resolve() (*ParameterSet, error) {
	var r fieldReader
	p := &ParameterSet{
		Chassis: Chassis{
			Mass:         r.num("chassis.mass", d.Chassis.Mass),
			YawInertia:   r.num("chassis.yaw_inertia", d.Chassis.YawInertia),
			PitchInertia: r.num("chassis.pitch_inertia", d.Chassis.PitchInertia),
			RollInertia:  r.num("chassis.roll_inertia", d.Chassis.RollInertia),
			Wheelbase:    r.num("chassis.wheelbase", d.Chassis.Wheelbase),
			TrackWidth:   r.num("chassis.track_width", d.Chassis.TrackWidth),
			ComOffset:    r.num("chassis.com_offset", d.Chassis.ComOffset),
			ComHeight:    r.num("chassis.com_height", d.Chassis.ComHeight),
			Gravity:      r.num("chassis.gravity", d.Chassis.Gravity),
		},
		Suspension: Suspension{
			FrontStiffness: r.num("suspension.front_stiffness", d.Suspension.FrontStiffness),
			RearStiffness:  r.num("suspension.rear_stiffness", d.Suspension.RearStiffness),
			FrontDamping:   r.num("suspension.front_damping", d.Suspension.FrontDamping),
			RearDamping:    r.num("suspension.rear_damping", d.Suspension.RearDamping),
		},
		Tire: Tire{
			PeakFriction:      r.num("tire.peak_friction", d.Tire.PeakFriction),
			LongStiffness:     r.num("tire.longitudinal_stiffness", d.Tire.LongStiffness),
			LatStiffness:      r.num("tire.lateral_stiffness", d.Tire.LatStiffness),
			LongShape:         r.num("tire.longitudinal_shape", d.Tire.LongShape),
			LatShape:          r.num("tire.lateral_shape", d.Tire.LatShape),
			Curvature:         r.num("tire.curvature", d.Tire.Curvature),
			Radius:            r.num("tire.radius", d.Tire.Radius),
			WheelInertia:      r.num("tire.wheel_inertia", d.Tire.WheelInertia),
			RollingResistance: r.num("tire.rolling_resistance", d.Tire.RollingResistance),
		},
		Steering: Steering{
			MaxSteer:  r.num("steering.max_steer", d.Steering.MaxSteer),
			SteerRate: r.num("steering.steer_rate", d.Steering.SteerRate),
			Ackermann: r.num("steering.ackermann", d.Steering.Ackermann),
		},
		Engine: Engine{
			IdleRPM:    r.num("engine.idle_rpm", d.Engine.IdleRPM),
			RedlineRPM: r.num("engine.redline_rpm", d.Engine.RedlineRPM),
			DriveRatio: r.num("engine.drive_ratio", d.Engine.DriveRatio),
			RearBias:   r.num("engine.rear_bias", d.Engine.RearBias),
		},
		Brakes: Brakes{
			BrakeTorque:     r.num("brakes.brake_torque", d.Brakes.BrakeTorque),
			FrontBias:       r.num("brakes.front_bias", d.Brakes.FrontBias),
			HandbrakeTorque: r.num("brakes.handbrake_torque", d.Brakes.HandbrakeTorque),
		},
		Aero: Aero{
			Drag: r.num("aero.drag", d.Aero.Drag),
		},
		Skid: Skid{
			Threshold: r.num("skid.threshold", d.Skid.Threshold),
			FullSlip:  r.num("skid.full_slip", d.Skid.FullSlip),
		},
	}

	if d.Engine.TorqueCurve == nil {
		r.errs = multierr.Append(r.errs, errors.New("engine.torque_curve: missing"))
	}
	for i, pt := range d.Engine.TorqueCurve {
		prefix := fmt.Sprintf("engine.torque_curve[%d]", i)
		p.Engine.TorqueCurve = append(p.Engine.TorqueCurve, TorquePoint{
			RPM:    r.num(prefix+".rpm", pt.RPM),
			Torque: r.num(prefix+".torque", pt.Torque),
		})
	}

	if r.errs != nil {
		return nil, r.errs
	}
	return p, nil
}

func ptr(v float64) *float64 { return &v }

func newDocument(p *ParameterSet) *document {
	d := &document{
		Chassis: chassisDoc{
			Mass:         ptr(p.Chassis.Mass),
			YawInertia:   ptr(p.Chassis.YawInertia),
			PitchInertia: ptr(p.Chassis.PitchInertia),
			RollInertia:  ptr(p.Chassis.RollInertia),
			Wheelbase:    ptr(p.Chassis.Wheelbase),
			TrackWidth:   ptr(p.Chassis.TrackWidth),
			ComOffset:    ptr(p.Chassis.ComOffset),
			ComHeight:    ptr(p.Chassis.ComHeight),
			Gravity:      ptr(p.Chassis.Gravity),
		},
		Suspension: suspensionDoc{
			FrontStiffness: ptr(p.Suspension.FrontStiffness),
			RearStiffness:  ptr(p.Suspension.RearStiffness),
			FrontDamping:   ptr(p.Suspension.FrontDamping),
			RearDamping:    ptr(p.Suspension.RearDamping),
		},
		Tire: tireDoc{
			PeakFriction:      ptr(p.Tire.PeakFriction),
			LongStiffness:     ptr(p.Tire.LongStiffness),
			LatStiffness:      ptr(p.Tire.LatStiffness),
			LongShape:         ptr(p.Tire.LongShape),
			LatShape:          ptr(p.Tire.LatShape),
			Curvature:         ptr(p.Tire.Curvature),
			Radius:            ptr(p.Tire.Radius),
			WheelInertia:      ptr(p.Tire.WheelInertia),
			RollingResistance: ptr(p.Tire.RollingResistance),
		},
		Steering: steeringDoc{
			MaxSteer:  ptr(p.Steering.MaxSteer),
			SteerRate: ptr(p.Steering.SteerRate),
			Ackermann: ptr(p.Steering.Ackermann),
		},
		Engine: engineDoc{
			IdleRPM:    ptr(p.Engine.IdleRPM),
			RedlineRPM: ptr(p.Engine.RedlineRPM),
			DriveRatio: ptr(p.Engine.DriveRatio),
			RearBias:   ptr(p.Engine.RearBias),
		},
		Brakes: brakesDoc{
			BrakeTorque:     ptr(p.Brakes.BrakeTorque),
			FrontBias:       ptr(p.Brakes.FrontBias),
			HandbrakeTorque: ptr(p.Brakes.HandbrakeTorque),
		},
		Aero: aeroDoc{Drag: ptr(p.Aero.Drag)},
		Skid: skidDoc{
			Threshold: ptr(p.Skid.Threshold),
			FullSlip:  ptr(p.Skid.FullSlip),
		},
	}
	for _, pt := range p.Engine.TorqueCurve {
		d.Engine.TorqueCurve = append(d.Engine.TorqueCurve, torquePointDoc{RPM: ptr(pt.RPM), Torque: ptr(pt.Torque)})
	}
	return d
}

// Encode writes a complete parameter file for p
func Encode(w io.Writer, p *ParameterSet, format Format) error {
	doc := newDocument(p)
	switch format {
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %v", format)
}

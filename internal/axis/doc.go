// Package axis reconstructs and manipulates the physical axes of EPR data.
//
// A cw-EPR trace is sampled along a magnetic-field sweep. Vendor files
// describe that sweep with some subset of {start, stop, sweep width, step
// width, point count}; [Descriptor.Reconstruct] checks that the subset is
// sufficient and derives the rest. Values are carried as [Quantity] so that
// arithmetic between incompatible units fails instead of silently mixing
// gauss and millitesla.
//
// The package also provides the grid helpers used by the importers:
// evenly spaced grids ([Linspace]), index-to-physical calibration
// ([Calibrated]), piecewise-linear resampling ([Interpolate]) and field
// windowing ([Window]), plus the unit normalisations applied to imported
// metadata ([ToMillitesla], [ToGigahertz], [ToKilohertz], [ToMilliwatt]).
package axis

package constants

const DefaultTolerance float64 = 1e-6 // half-width of the final bracket
const DefaultMaxIterations = 1000
const DefaultScanSteps = 100
const DefaultPrecision uint = 256 // [bits], arbitrary precision bisection
const NoRootMessage = "Root does not exist"

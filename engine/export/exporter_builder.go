package export

// ExporterBuilderOption is a functional option for configuring an Exporter.
type ExporterBuilderOption func(*exporterImpl)

// WithTileSize sets the nominal tile edge in pixels. Values below 1 are ignored.
//
// Parameters:
//   - size: the tile edge in pixels
//
// Returns:
//   - ExporterBuilderOption: option function to apply
func WithTileSize(size int) ExporterBuilderOption {
	return func(e *exporterImpl) {
		if size >= 1 {
			e.tileSize = size
		}
	}
}

// WithWorkers sets how many tiles render at once. Values below 1 are ignored.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - ExporterBuilderOption: option function to apply
func WithWorkers(workers int) ExporterBuilderOption {
	return func(e *exporterImpl) {
		if workers >= 1 {
			e.workers = workers
		}
	}
}

// WithSupersample renders at factor times the output size and scales the result down.
// The factor is clamped to [1, MaxSupersample].
//
// Parameters:
//   - factor: the supersampling factor
//
// Returns:
//   - ExporterBuilderOption: option function to apply
func WithSupersample(factor int) ExporterBuilderOption {
	return func(e *exporterImpl) {
		e.supersample = min(max(factor, 1), MaxSupersample)
	}
}

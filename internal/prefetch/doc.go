package prefetch

// Package prefetch probes the natural size of every gallery image in the
// background with a bounded number of parallel probes, so that the viewer
// usually finds sizes already cached when it opens. Failures are recorded
// per image and reported through the update callback.

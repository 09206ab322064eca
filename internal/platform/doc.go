package platform

// Package platform holds OS and I/O integrations: image probing and decoding
// from files and HTTP, gallery manifests, and revealing files in the system
// file manager.

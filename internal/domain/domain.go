// Package domain holds the media-library models and the types shared by the
// duplicate detection and merge modules.
package domain

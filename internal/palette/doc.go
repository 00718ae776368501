// Package palette loads tile color palettes and matches arbitrary colors to
// their nearest palette entry.
//
// A palette file is JSON:
//
//	{
//	  "name": "Primaries",
//	  "url": "none",
//	  "description": "...",
//	  "colors": [
//	    {"rgb": [255, 0, 0], "name": "red", "number": "1"},
//	    {"hex": "#00FF00", "name": "green", "number": "2"}
//	  ]
//	}
//
// Each color gives either an "rgb" triple or a "hex" string. Entry names
// and numbers are opaque: they travel with a match unchanged so callers can
// report which tile to use.
//
// Palettes bundled with the binary (see Names) are looked up by name before
// the filesystem is tried.
package palette

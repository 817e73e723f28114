// Package extract turns the box's /deviceMessages page into normalized
// readings.
//
// Parse(r) locates the <main> element, walks every table inside it in
// document order and converts each data row into a Record. Header rows
// (any <th>) are skipped. Two row shapes are recognized by cell count:
//
//	4 cells: timestamp | name | value | unit
//	3 cells: name | "value unit" | timestamp
//
// In the 3-cell shape the unit is split off the value cell's own text by
// suffix match against a static abbreviation table (SplitUnit). Values are
// coerced into a tagged Value (Coerce): float when a '.' is present,
// integer otherwise, the code of a "Text (N)" status as a fallback, and
// plain text when nothing numeric can be found.
//
// A missing <main> (ErrNoContainer) or a timestamp that does not match
// MM/DD/YYYY hh:mm:ssAM/PM (*TimestampError) fails the whole parse. Every
// other irregularity is absorbed row by row.
package extract

// Package builder produces validated catalogs ready for encoding.
//
// Two paths build a catalog:
//   - Join attaches raw variation export records to their parent product records
//   - Generate produces a deterministic synthetic catalog from a seed
//
// Both paths finish in the same preparation step, which validates every product,
// enforces unique ids and slugs, and precomputes search text on a worker pool.
// Data-quality problems in exports are reported as warnings and the offending
// record is dropped. The synthetic path treats any such problem as fatal.
package builder

// Package decode turns one normalized dump line into an entity.Entity
//
// Design choices:
//   - Several backends behind one small interface; Select picks the first one that
//     is known and passes a self test on a canary record.
//   - Only id, labels and descriptions are read. Everything else in the record
//     (claims, sitelinks, aliases) is never materialized.
//   - Walking is tolerant: a labels entry that is not an object, or a value that is
//     not a string, is ignored rather than failing the record.
//   - Map based backends sort labels by language code so reruns give identical output.
package decode

// Package integrity provides health checks over everything cogsaver
// depends on.
//
// Unlike the catalog's reconcile adapter, which compares the three save
// sources item by item, this package validates the surrounding
// infrastructure: the on-disk layout, the save files themselves, the
// catalog schema and the backup vault.
//
// # Checks Provided
//
//   - Structure: the live save is readable and the slot layout around it
//     (saves folder, auto folder, quicksave, catalog database) is in
//     place. Missing folders are fixable.
//   - Saves: every save in the saves folder still parses as a CoG state
//     and matches the checksum the catalog recorded for it.
//   - Catalog: the catalog database schema matches the save record model
//     this build expects (columns, types).
//   - Vault: the backup bucket is reachable and exists. A missing bucket
//     is fixable.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs the layout check (supports ?fix=true).
//   - GET /integrity/saves : Runs the save content check.
//   - GET /integrity/catalog : Runs the schema check.
//   - GET /integrity/vault : Runs the vault check (supports ?fix=true).
package integrity

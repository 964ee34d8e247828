// Package feed ingests records from a device bridge over HTTP.
//
// The bridge owns the serial link; it exposes GET /api/records?since=N&limit=M
// returning {"records":[...],"next":N} and GET /api/link with the connection
// state. Poller copies new records into the store, drains full batches, and
// backs off exponentially (capped at 30s) while the bridge is unreachable.
// Feed failures, recoveries and link changes are appended as synthetic System
// and Error records so they show up inline with the data.
package feed

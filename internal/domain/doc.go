// Package domain models active National Weather Service (NWS) alerts.
//
// # Data Source
//
// Alerts originate from the NWS public API at https://api.weather.gov.
// The /alerts/active family of endpoints returns GeoJSON feature
// collections whose properties carry Common Alerting Protocol (CAP)
// fields: event, headline, description, instruction, severity, urgency,
// certainty, onset, expires, and a free-form parameters block that may
// include an NWSheadline entry.
//
// # CAP Vocabularies
//
// Severity, urgency, and certainty are closed CAP vocabularies. Each maps
// to an ordinal rank so alerts can be compared:
//
//	Severity:  Unknown=0, Minor=1, Moderate=2, Severe=3, Extreme=4
//	Urgency:   Unknown=0, Future=1, Expected=2, Immediate=3
//	Certainty: Unknown=0, Unlikely=1, Possible=2, Likely=3, Observed=4
//
// Feed values are matched case-insensitively; anything unrecognized ranks
// as Unknown (0). See [SeverityFromString], [UrgencyFromString],
// [CertaintyFromString].
//
// # Importance Scoring
//
// A single alert is surfaced per area, chosen by [Alert.ImportanceScore]:
// severity dominates in the hundreds digit, urgency in the tens, certainty
// in the ones, and a bonus of 100 (Observed) or 50 (Likely) promotes
// confirmed hazards above merely imminent ones at equal severity.
//
// # Timestamps
//
// The feed mixes RFC 3339 values ("2024-05-01T15:00:00-05:00") with
// offset-less values; offset-less values are read as UTC. Expiry
// comparisons always happen in UTC. An alert without a usable expires
// value cannot be aged out and is rejected during parsing; a missing onset
// is permitted.
//
// # Area Labels
//
// Each alert carries the labels it was fetched under. A location query
// stamps "County: {id}" / "Zone: {id}" from a points lookup; a SAME
// (Specific Area Message Encoding) query stamps the raw 6-character code,
// format PSSCCC (P = subdivision digit, SS = state FIPS, CCC = county
// FIPS).
package domain

// Package domain contains the core business entities, value objects, and
// domain logic of the application. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
//
// Calendar-sensitive logic lives in subpackages: day (local day boundaries),
// hydration (aggregation), streak (the daily goal state machine) and
// reminder (reminder schedule computation).
package domain

// Zone resolution must never depend on the host's zoneinfo installation.
import _ "time/tzdata"

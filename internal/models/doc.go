// Package models defines the core domain records for Divvy.
//
// Records reference each other by ID strings rather than pointers to avoid
// circular references; timestamps are Unix seconds. The storage layer assigns
// IDs (UUID format) and timestamps on insert when they are unset.
//
// Record kinds with a lifecycle (Group, Membership, PendingInvitation) are
// watched by the reaction pipeline in internal/service; derived records
// (Friendship, GroupBalance, Activity) are only ever written by that pipeline
// or its collaborator services.
package models

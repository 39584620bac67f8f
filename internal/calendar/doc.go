// Package calendar implements the calendar briefing pipeline: window
// resolution, the Google Calendar query, user-centric filtering, and the
// JSON briefing shape consumed by workflow tools.
//
// The filtering rules are deliberately conservative: working-location
// records and uninvited events are dropped, declined events are dropped
// only while they are still in the future, and events without an attendee
// list are always kept.
package calendar

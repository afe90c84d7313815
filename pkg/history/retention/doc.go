// Package retention prunes history records by age and by count, either on
// demand ("odrlcheck history prune") or on a cron schedule while serving.
package retention

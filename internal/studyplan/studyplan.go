// Package studyplan holds generated study plan records.
package studyplan

import (
	"fmt"
	"time"
)

// Bounds on the plan form inputs.
const (
	MinDays  = 1
	MaxDays  = 60
	MinHours = 1
	MaxHours = 16

	DefaultDays  = 7
	DefaultHours = 4
)

// Task is one scheduled activity within a day.
type Task struct {
	Time     string `json:"time"`
	Task     string `json:"task"`
	Priority string `json:"priority"`
}

// DailyPlan is one day of the plan. Day is a label like "Day 1".
type DailyPlan struct {
	Day   string `json:"day"`
	Tasks []Task `json:"tasks"`
}

// Record is one generated plan, stored in history.
type Record struct {
	ID        string      `json:"id"`
	ExamName  string      `json:"examName"`
	Days      int         `json:"days"`
	Hours     int         `json:"hours"`
	Plan      []DailyPlan `json:"plan"`
	Timestamp time.Time   `json:"timestamp"`
}

// RecordID implements history.Record.
func (r Record) RecordID() string { return r.ID }

// NewRecord builds a record with a time-based id.
func NewRecord(examName string, days, hours int, plan []DailyPlan) Record {
	now := time.Now()
	return Record{
		ID:        fmt.Sprintf("%d", now.UnixMilli()),
		ExamName:  examName,
		Days:      days,
		Hours:     hours,
		Plan:      plan,
		Timestamp: now,
	}
}

package models

// Stats is a point-in-time summary of every stored complaint.
type Stats struct {
	TotalComplaints int            `json:"totalComplaints"`
	StatusCounts    map[Status]int `json:"statusCounts"`
	CategoryCounts  map[string]int `json:"categoryCounts"`
	Last7DaysCount  int            `json:"last7DaysCount"`
}

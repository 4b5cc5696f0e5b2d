package query

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ResultFromJSON maps the canonical structured answer shape onto a Result:
//
//	{"response": "...", "actionable": true, "data": {"employee_id": ...}}
//
// Markdown code fences around the document are tolerated, since model-backed
// providers tend to wrap JSON answers in them.
func ResultFromJSON(raw string) *Result {
	doc := gjson.Parse(stripFences(raw))

	result := &Result{
		Response:   doc.Get("response").String(),
		Actionable: doc.Get("actionable").Bool(),
	}
	if data := doc.Get("data"); data.Exists() {
		result.Leave = LeaveFromJSON(data)
	}
	if result.Leave != nil {
		result.Actionable = true
	}
	if result.Response == "" {
		// Not the canonical shape; surface the raw text as the reply.
		result.Response = strings.TrimSpace(raw)
	}
	return result
}

// LeaveFromJSON maps a JSON object onto LeaveDetails, returning nil when no
// recognized field is present so callers can distinguish "no payload".
func LeaveFromJSON(data gjson.Result) *LeaveDetails {
	leave := &LeaveDetails{
		EmployeeID:   data.Get("employee_id").String(),
		EmployeeName: data.Get("employee_name").String(),
		LeaveType:    data.Get("leave_type").String(),
		StartDate:    data.Get("start_date").String(),
		EndDate:      data.Get("end_date").String(),
	}
	found := leave.EmployeeID != "" || leave.EmployeeName != "" || leave.LeaveType != "" ||
		leave.StartDate != "" || leave.EndDate != ""

	if v := data.Get("leave_balance"); v.Exists() {
		balance := int(v.Int())
		leave.LeaveBalance = &balance
		found = true
	}
	if v := data.Get("days_requested"); v.Exists() {
		days := int(v.Int())
		leave.DaysRequested = &days
		found = true
	}

	if !found {
		return nil
	}
	return leave
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultFromJSON_CanonicalShape(t *testing.T) {
	raw := `{"response": "Registered 6 days of vacation.", "actionable": true, "data": {"leave_type": "vacation", "days_requested": 6, "leave_balance": 14}}`

	result := ResultFromJSON(raw)

	assert.Equal(t, "Registered 6 days of vacation.", result.Response)
	assert.True(t, result.Actionable)
	require.NotNil(t, result.Leave)
	assert.Equal(t, "vacation", result.Leave.LeaveType)
	require.NotNil(t, result.Leave.DaysRequested)
	assert.Equal(t, 6, *result.Leave.DaysRequested)
	require.NotNil(t, result.Leave.LeaveBalance)
	assert.Equal(t, 14, *result.Leave.LeaveBalance)
}

func TestResultFromJSON_InformationalQuery(t *testing.T) {
	raw := `{"response": "You have 15 days available.", "actionable": false}`

	result := ResultFromJSON(raw)

	assert.Equal(t, "You have 15 days available.", result.Response)
	assert.False(t, result.Actionable)
	assert.Nil(t, result.Leave)
}

func TestResultFromJSON_MarkdownFences(t *testing.T) {
	raw := "```json\n{\"response\": \"ok\", \"data\": {\"days_requested\": 2}}\n```"

	result := ResultFromJSON(raw)

	assert.Equal(t, "ok", result.Response)
	require.NotNil(t, result.Leave)
	assert.Equal(t, 2, *result.Leave.DaysRequested)
	// Structured payload implies an actionable request.
	assert.True(t, result.Actionable)
}

func TestResultFromJSON_PlainTextFallback(t *testing.T) {
	result := ResultFromJSON("Sorry, I cannot help with that.")

	assert.Equal(t, "Sorry, I cannot help with that.", result.Response)
	assert.False(t, result.Actionable)
	assert.Nil(t, result.Leave)
}

func TestLeaveFromJSON_AbsentFieldsStayAbsent(t *testing.T) {
	result := ResultFromJSON(`{"response": "ok", "data": {"employee_id": "EMP1"}}`)

	require.NotNil(t, result.Leave)
	assert.Equal(t, "EMP1", result.Leave.EmployeeID)
	assert.Nil(t, result.Leave.DaysRequested)
	assert.Nil(t, result.Leave.LeaveBalance)
	assert.Empty(t, result.Leave.LeaveType)
}

func TestLeaveFromJSON_ZeroValuesAreReported(t *testing.T) {
	result := ResultFromJSON(`{"response": "ok", "data": {"leave_balance": 0}}`)

	require.NotNil(t, result.Leave)
	require.NotNil(t, result.Leave.LeaveBalance)
	assert.Zero(t, *result.Leave.LeaveBalance)
}

func TestMockClient(t *testing.T) {
	client := NewMockClient()
	client.AddResult("hello", &Result{Response: "hi"})

	result, err := client.Query(t.Context(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "hi", result.Response)

	result, err = client.Query(t.Context(), "unknown", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Response)

	assert.Equal(t, []string{"hello", "unknown"}, client.Calls)
}

package employee

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	var comp Compensation
	body := `{"employee":{"employeeId":"123"},"salary":95000.50,"effectiveDate":"2024-03-01"}`
	if err := json.Unmarshal([]byte(body), &comp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if comp.EffectiveDate == nil || comp.EffectiveDate.Time != time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected date %v", comp.EffectiveDate)
	}
	if comp.Salary.String() != "95000.5" {
		t.Fatalf("unexpected salary %s", comp.Salary)
	}

	out, err := json.Marshal(comp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"effectiveDate":"2024-03-01"`) {
		t.Fatalf("date not rendered as yyyy-MM-dd: %s", out)
	}
	if !strings.Contains(string(out), `"salary":95000.5`) {
		t.Fatalf("salary not rendered as a number: %s", out)
	}
}

func TestDateRejectsOtherFormats(t *testing.T) {
	for _, raw := range []string{`"1234"`, `1234`, `"2020-1-2"`, `"2020-02-30"`, `"03/01/2024"`, `"2024-03-01T00:00:00Z"`} {
		var d Date
		err := json.Unmarshal([]byte(raw), &d)
		var formatErr *DateFormatError
		if !errors.As(err, &formatErr) {
			t.Fatalf("%s: expected DateFormatError, got %v", raw, err)
		}
		if formatErr.Error() != "Invalid date format. Expected format is yyyy-MM-dd" {
			t.Fatalf("%s: unexpected message %q", raw, err.Error())
		}
	}
}

func TestEmployeeIgnoresExtraReportFields(t *testing.T) {
	var emp Employee
	body := `{"firstName":"John","directReports":[{"employeeId":"a","firstName":"Paul"},{"employeeId":"b"}]}`
	if err := json.Unmarshal([]byte(body), &emp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ids := emp.ReportIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected report ids %v", ids)
	}
}

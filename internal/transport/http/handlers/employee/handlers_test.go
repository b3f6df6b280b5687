package employeehandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"emprecords/internal/domain/employee"
	employeehandler "emprecords/internal/transport/http/handlers/employee"
	"emprecords/internal/transport/http/middleware"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"requestId"`
	Error     *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Fields []employee.FieldIssue `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

type fixture struct {
	router    http.Handler
	employees *employee.MemoryEmployees
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	employees := employee.NewMemoryEmployees()
	svc := employee.NewService(employees, employee.NewMemoryCompensations())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	employeehandler.NewHandler(svc, nil).RegisterRoutes(r)
	return fixture{router: r, employees: employees}
}

func (f fixture) seed(t *testing.T, id string, reports ...string) {
	t.Helper()
	emp := employee.Employee{ID: id, FirstName: "John", LastName: "Lennon", Position: "Manager", Department: "Engineering"}
	for _, report := range reports {
		emp.DirectReports = append(emp.DirectReports, employee.Ref{EmployeeID: report})
	}
	_, err := f.employees.Insert(context.Background(), emp)
	require.NoError(t, err)
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

const validEmployee = `{"firstName":"Paul","lastName":"McCartney","position":"Developer I","department":"Engineering"}`

func TestCreateAndReadEmployee(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/employee", validEmployee)
	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	require.NotEmpty(t, env.RequestID)

	var created employee.Employee
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Paul", created.FirstName)

	rec = f.do(t, http.MethodGet, "/employee/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var read employee.Employee
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &read))
	require.Equal(t, created, read)
}

func TestCreateEmployeeValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/employee", `{"firstName":"P4ul","lastName":"McCartney","department":"Engineering"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "validation_error", env.Error.Code)
	require.Equal(t, "First name must only contain characters!\nPosition name is required!\n", env.Error.Message)
	require.Len(t, env.Error.Details.Fields, 2)
	require.Equal(t, "firstName", env.Error.Details.Fields[0].Field)
}

func TestCreateEmployeeMalformedBody(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/employee", `{"firstName":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_payload", decodeEnvelope(t, rec).Error.Code)
}

func TestReadMissingEmployeeIsNoContent(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/employee/missing", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Zero(t, rec.Body.Len())
}

func TestUpdateEmployeeUsesPathID(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "lennon")

	body := `{"employeeId":"someone-else","firstName":"John","lastName":"Lennon","position":"Director","department":"Engineering"}`
	rec := f.do(t, http.MethodPut, "/employee/lennon", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated employee.Employee
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &updated))
	require.Equal(t, "lennon", updated.ID)
	require.Equal(t, "Director", updated.Position)

	_, err := f.employees.FindByID(context.Background(), "someone-else")
	require.ErrorIs(t, err, employee.ErrNotFound)
}

func TestUpdateMissingEmployee(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/employee/nope", validEmployee)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "invalid_argument", env.Error.Code)
	require.Equal(t, "Employee not found for id: nope", env.Error.Message)
}

func TestReportingStructure(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "lennon", "mccartney", "starr")
	f.seed(t, "mccartney")
	f.seed(t, "starr", "best", "harrison")
	f.seed(t, "best")
	f.seed(t, "harrison")

	rec := f.do(t, http.MethodGet, "/employee/lennon/direct-reports", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var structure employee.ReportingStructure
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &structure))
	require.Equal(t, "lennon", structure.Employee.ID)
	require.Equal(t, 4, structure.NumberOfReports)
}

func TestReportingStructureCycleIsConflict(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "b")
	f.seed(t, "b", "a")

	rec := f.do(t, http.MethodGet, "/employee/a/direct-reports", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "cyclic_hierarchy", decodeEnvelope(t, rec).Error.Code)
}

func TestCompensationLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "lennon")

	rec := f.do(t, http.MethodGet, "/employee/lennon/compensation", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	body := `{"employee":{"employeeId":"ignored"},"salary":120000.50,"effectiveDate":"2024-02-01"}`
	rec = f.do(t, http.MethodPost, "/employee/lennon/compensation", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Employee      employee.Employee `json:"employee"`
		Salary        json.Number       `json:"salary"`
		EffectiveDate string            `json:"effectiveDate"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	require.Equal(t, "lennon", created.Employee.ID)
	require.Equal(t, "John", created.Employee.FirstName)
	require.Equal(t, "120000.5", created.Salary.String())
	require.Equal(t, "2024-02-01", created.EffectiveDate)

	rec = f.do(t, http.MethodPost, "/employee/lennon/compensation", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Compensation already exists for employee lennon", decodeEnvelope(t, rec).Error.Message)

	rec = f.do(t, http.MethodGet, "/employee/lennon/compensation", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/employee/lennon/compensation/statement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestCreateCompensationBadDate(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "lennon")

	for _, date := range []string{`"1234"`, `"02/01/2024"`, `1234`} {
		rec := f.do(t, http.MethodPost, "/employee/lennon/compensation", `{"employee":{"employeeId":"lennon"},"salary":1,"effectiveDate":`+date+`}`)
		require.Equal(t, http.StatusBadRequest, rec.Code, date)
		require.Equal(t, "Invalid date format. Expected format is yyyy-MM-dd", decodeEnvelope(t, rec).Error.Message)
	}
}

func TestCreateCompensationWithoutEmployee(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "lennon")

	rec := f.do(t, http.MethodPost, "/employee/lennon/compensation", `{"salary":1,"effectiveDate":"2024-02-01"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "validation_error", env.Error.Code)
	require.Equal(t, "Employee is required!\n", env.Error.Message)
}

func TestCreateCompensationUnknownEmployee(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/employee/ghost/compensation", `{"employee":{"employeeId":"ghost"},"salary":1,"effectiveDate":"2024-02-01"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Employee not found for id: ghost", decodeEnvelope(t, rec).Error.Message)
}

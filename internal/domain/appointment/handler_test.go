package appointment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	booked := &mockBookedReader{byDate: map[string][]BookedSlot{
		"2024-01-10": {{Treatment: "Braces", Slot: "9:00 AM"}},
	}}
	h := NewHandler(NewService(&mockOptionRepo{options: sampleOptions()}, booked))
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func TestHandler_ListOptionsForDate(t *testing.T) {
	_, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/appointmentOptions?date=2024-01-10", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []Option
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 options, got %d", len(got))
	}
	if got[0].Name != "Braces" {
		t.Fatalf("expected Braces first, got %s", got[0].Name)
	}
	for _, s := range got[0].Slots {
		if s == "9:00 AM" {
			t.Error("expected booked 9:00 AM to be excluded")
		}
	}
}

func TestHandler_ListSpecialities(t *testing.T) {
	_, e := newTestHandler()

	for _, path := range []string{"/appointmentSpeciality", "/appointmentSpecialty"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		var got []map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &got)
		if len(got) != 2 || got[0]["name"] != "Braces" {
			t.Errorf("%s: unexpected body %s", path, rec.Body.String())
		}
		if _, ok := got[0]["slots"]; ok {
			t.Errorf("%s: projection must not include slots", path)
		}
	}
}

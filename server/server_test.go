package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func post(t *testing.T, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	New().Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func TestFault(t *testing.T) {
	t.Run("should solve three-phase fault", func(t *testing.T) {
		w := post(t, "/api/fault", "application/json",
			`{"network":{"lineVoltage":10000,"z1":{"re":1,"im":5},"z0":{"re":3,"im":15}},"fault":"3P"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		ia := decode(t, w)["quantities"].(map[string]any)["ia"].(map[string]any)
		assert.InDelta(t, 1132.3, ia["mag"], 0.5)
		assert.InDelta(t, -78.7, ia["deg"], 0.1)
		_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("should zero healthy phases for ground fault", func(t *testing.T) {
		w := post(t, "/api/fault", "application/json",
			`{"network":{"lineVoltage":10000,"z1":{"re":1,"im":5},"z0":{"mag":15.297,"deg":78.69}},"fault":"PG-A"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		q := decode(t, w)["quantities"].(map[string]any)
		assert.Equal(t, 0.0, q["ib"].(map[string]any)["mag"])
		assert.Equal(t, 0.0, q["ic"].(map[string]any)["mag"])
		u0 := decode(t, w)["voltageSequence"].(map[string]any)["zero"].(map[string]any)
		assert.Greater(t, u0["mag"], 0.0)
	})

	t.Run("should reject missing fault type", func(t *testing.T) {
		w := post(t, "/api/fault", "application/json",
			`{"network":{"lineVoltage":10000,"z1":{"re":1,"im":5}},"fault":""}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "invalid_input", decode(t, w)["kind"])
	})

	t.Run("should report division by zero", func(t *testing.T) {
		w := post(t, "/api/fault", "application/json", `{"network":{"lineVoltage":10000},"fault":"3P"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "division_by_zero", decode(t, w)["kind"])
	})

	t.Run("should reject negative fault resistance", func(t *testing.T) {
		w := post(t, "/api/fault", "application/json",
			`{"network":{"lineVoltage":10000,"z1":{"re":1,"im":5},"faultResistance":-2},"fault":"3P"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "invalid_input", decode(t, w)["kind"])
	})

	t.Run("should reject malformed json", func(t *testing.T) {
		w := post(t, "/api/fault", "application/json", `{"network":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTrip(t *testing.T) {
	w := post(t, "/api/trip", "application/json",
		`{"curve":{"family":"SI","pickup":350,"timeSetting":0.3},"current":1132}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m := decode(t, w)
	assert.Equal(t, true, m["isTrip"])
	assert.InDelta(t, 1.77, m["tripTime"], 0.02)

	w = post(t, "/api/trip", "application/json",
		`{"curve":{"family":"DT","pickup":100,"timeSetting":0.1},"current":100}`)
	require.Equal(t, http.StatusOK, w.Code)
	m = decode(t, w)
	assert.Equal(t, false, m["isTrip"])
	assert.Equal(t, -1.0, m["tripTime"])

	w = post(t, "/api/trip", "application/json",
		`{"curve":{"family":"VI","pickup":0,"timeSetting":0.1},"current":100}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_setting", decode(t, w)["kind"])

	w = post(t, "/api/trip", "application/json",
		`{"curve":{"family":"VI","pickup":1e-300,"timeSetting":0.1},"current":1e300}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_input", decode(t, w)["kind"])
}

func TestCurve(t *testing.T) {
	w := post(t, "/api/curve", "application/json",
		`{"curve":{"family":"EI","pickup":100,"timeSetting":0.5},"options":{"maxCurrent":3000,"count":150}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	points := decode(t, w)["points"].([]any)
	assert.NotEmpty(t, points)
	assert.LessOrEqual(t, len(points), 150)
	for _, p := range points {
		tm := p.(map[string]any)["time"].(float64)
		assert.False(t, math.IsInf(tm, 0))
		assert.GreaterOrEqual(t, tm, 0.01)
		assert.LessOrEqual(t, tm, 100.0)
	}
}

func TestCT(t *testing.T) {
	w := post(t, "/api/ct", "application/json",
		`{"ct":{"primaryRated":200,"secondaryRated":5,"connection":"DELTA"},"primary":100}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m := decode(t, w)
	assert.InDelta(t, 4.33, m["secondary"], 0.01)
	assert.NotContains(t, m, "warning")

	w = post(t, "/api/ct", "application/json",
		`{"ct":{"primaryRated":200,"secondaryRated":5},"primary":2000}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "saturation-risk", decode(t, w)["warning"])
}

func TestSelectivity(t *testing.T) {
	w := post(t, "/api/selectivity", "application/json",
		`{"upstream":{"family":"SI","pickup":400,"timeSetting":0.5},"downstream":{"family":"SI","pickup":200,"timeSetting":0.1},"current":2000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["coordinated"])
}

const netlist = `NET 10000 1+5i 3+15i 0
FAULT 3P
CT1 400 5 STAR
RELAY1 SI 350 0.1 NAME=feeder
RELAY2 SI 3.5 0.3 CT1 NAME=incomer
`

func TestStudy(t *testing.T) {
	w := post(t, "/api/study", "text/plain", netlist)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m := decode(t, w)
	assert.InDelta(t, 1132.3, m["faultCurrent"], 0.5)
	assert.Len(t, m["relays"], 2)
	pairs := m["pairs"].([]any)
	require.Len(t, pairs, 1)
	assert.Equal(t, true, pairs[0].(map[string]any)["coordinated"])

	yaml := `network: {lineVoltage: 10000, z1: 1+5i, z0: 3+15i}
fault: PP-BC
relays:
  - {id: 1, family: DT, pickup: 100, timeSetting: 0.1}
`
	w = post(t, "/api/study", "application/yaml", yaml)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "PP-BC", decode(t, w)["fault"])

	w = post(t, "/api/study", "text/plain", "BOGUS 1 2 3\n")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestChart(t *testing.T) {
	w := post(t, "/api/chart", "text/plain", netlist)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "incomer")
}

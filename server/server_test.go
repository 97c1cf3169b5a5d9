package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"gitlab.grandhoo.com/rock/rock_cfd/cfd_rule_dig"
	"gitlab.grandhoo.com/rock/rock_cfd/global_variables"
	"gitlab.grandhoo.com/rock/rock_cfd/rds_config"
	"gitlab.grandhoo.com/rock/rock_cfd/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDigCfdRulesApi(t *testing.T) {
	dir := t.TempDir()
	dataPath, err := utils.CreateCsv(dir, "data.csv", [][]string{
		{"A", "B", "Y"},
		{"1", "x", "p"},
		{"1", "x", "p"},
		{"2", "y", "q"},
		{"2", "z", "q"},
	})
	require.NoError(t, err)
	outputPath := filepath.Join(dir, "out")

	r := NewRouter()
	w := doJSON(t, r, http.MethodPost, "/cfd", gin.H{
		"data_path":   dataPath,
		"output_path": outputPath,
		"enum_k":      4,
		"support":     0,
		"confidence":  1,
		"tree_level":  1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := &cfd_rule_dig.CfdResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp))
	require.Equal(t, "finish", resp.Message)
	require.Equal(t, 6, resp.Data.RuleSize)
	require.False(t, global_variables.IsJobRunning.Load())

	w = doJSON(t, r, http.MethodPost, "/check-error", gin.H{
		"data_path":     dataPath,
		"snapshot_path": filepath.Join(outputPath, rds_config.RulesSnapshotName),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	checkResp := &cfd_rule_dig.CheckErrorResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), checkResp))
	require.Zero(t, checkResp.SuspectRowSize)
	require.Len(t, checkResp.Errors, 6)
}

func TestDigCfdRulesBadRequest(t *testing.T) {
	r := NewRouter()
	w := doJSON(t, r, http.MethodPost, "/cfd", gin.H{"output_path": t.TempDir()})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cfd", gin.H{"data_path": filepath.Join(t.TempDir(), "missing.csv")})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/check-error", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobRunning(t *testing.T) {
	r := NewRouter()
	global_variables.IsJobRunning.Store(true)
	t.Cleanup(func() { global_variables.IsJobRunning.Store(false) })

	w := doJSON(t, r, http.MethodPost, "/cfd", gin.H{"data_path": "x.csv"})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.True(t, global_variables.IsJobRunning.Load())

	w = doJSON(t, r, http.MethodGet, "/cfd/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"running":true`)
}

func TestGetCfdRulesWithoutDb(t *testing.T) {
	r := NewRouter()
	w := doJSON(t, r, http.MethodGet, "/cfd/rules", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/cfd/rules?taskId=x", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

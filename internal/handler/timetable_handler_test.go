package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/uniplan/timetable-api/internal/dto"
	appErrors "github.com/uniplan/timetable-api/pkg/errors"
)

type timetableServiceMock struct {
	generateReq dto.GenerateTimetableRequest
	moveReq     dto.MoveLectureRequest
	moveResp    *dto.MoveLectureResponse
	reportErr   error
	cleared     bool
}

func (m *timetableServiceMock) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	m.generateReq = req
	return &dto.GenerateTimetableResponse{RunID: "run-1", Seed: 42, Lectures: []dto.LectureView{}}, nil
}

func (m *timetableServiceMock) Move(ctx context.Context, req dto.MoveLectureRequest) (*dto.MoveLectureResponse, error) {
	m.moveReq = req
	if m.moveResp != nil {
		return m.moveResp, nil
	}
	return &dto.MoveLectureResponse{Accepted: true}, nil
}

func (m *timetableServiceMock) Timetable(ctx context.Context) (*dto.TimetableResponse, error) {
	return &dto.TimetableResponse{Lectures: []dto.LectureView{}}, nil
}

func (m *timetableServiceMock) Report(ctx context.Context) (*dto.RunReport, error) {
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	return &dto.RunReport{ScheduledCount: 3, Unscheduled: []string{}}, nil
}

func (m *timetableServiceMock) Clear(ctx context.Context) error {
	m.cleared = true
	return nil
}

func performRequest(t *testing.T, handle gin.HandlerFunc, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	handle(c)
	c.Writer.WriteHeaderNow()
	return w
}

func TestTimetableHandlerGenerate(t *testing.T) {
	mockSvc := &timetableServiceMock{}
	h := NewTimetableHandler(mockSvc)

	w := performRequest(t, h.Generate, http.MethodPost, "/timetable/generate", []byte(`{"seed":7}`))
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mockSvc.generateReq.Seed)
	require.Equal(t, int64(7), *mockSvc.generateReq.Seed)
}

func TestTimetableHandlerGenerateEmptyBody(t *testing.T) {
	mockSvc := &timetableServiceMock{}
	h := NewTimetableHandler(mockSvc)

	w := performRequest(t, h.Generate, http.MethodPost, "/timetable/generate", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Nil(t, mockSvc.generateReq.Seed)
}

func TestTimetableHandlerGenerateMalformedBody(t *testing.T) {
	h := NewTimetableHandler(&timetableServiceMock{})

	w := performRequest(t, h.Generate, http.MethodPost, "/timetable/generate", []byte(`{"seed":`))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerMove(t *testing.T) {
	mockSvc := &timetableServiceMock{
		moveResp: &dto.MoveLectureResponse{Accepted: false, Reason: "TARGET_OCCUPIED", Message: "target cell is already occupied"},
	}
	h := NewTimetableHandler(mockSvc)

	payload := []byte(`{"lectureId":"lec-1","doctorId":"doc-2","day":"monday","startTime":"09:40"}`)
	w := performRequest(t, h.Move, http.MethodPost, "/timetable/move", payload)

	// Rejections are outcomes, not transport errors.
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "lec-1", mockSvc.moveReq.LectureID)
	require.Equal(t, "doc-2", mockSvc.moveReq.DoctorID)

	var envelope struct {
		Data dto.MoveLectureResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.False(t, envelope.Data.Accepted)
	require.Equal(t, "TARGET_OCCUPIED", envelope.Data.Reason)
}

func TestTimetableHandlerGet(t *testing.T) {
	h := NewTimetableHandler(&timetableServiceMock{})
	w := performRequest(t, h.Get, http.MethodGet, "/timetable", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTimetableHandlerReportNotFound(t *testing.T) {
	mockSvc := &timetableServiceMock{
		reportErr: appErrors.Clone(appErrors.ErrNotFound, "no placement run recorded"),
	}
	h := NewTimetableHandler(mockSvc)

	w := performRequest(t, h.Report, http.MethodGet, "/timetable/report", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerClear(t *testing.T) {
	mockSvc := &timetableServiceMock{}
	h := NewTimetableHandler(mockSvc)

	w := performRequest(t, h.Clear, http.MethodDelete, "/timetable", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.True(t, mockSvc.cleared)
}

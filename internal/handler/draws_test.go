package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/lottery"
	"github.com/osse101/QuPot_Go/internal/repository"
)

var (
	testDrawID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testStart  = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	testEnd    = time.Date(2026, 11, 8, 0, 0, 0, 0, time.UTC)
)

func testDraw(status domain.DrawStatus) *domain.Draw {
	return &domain.Draw{
		ID:          testDrawID,
		Name:        "Weekly Jackpot",
		Description: "Six from forty-nine",
		StartDate:   testStart,
		EndDate:     testEnd,
		Status:      status,
	}
}

func testResult(status domain.VerificationStatus) *domain.DrawResult {
	return &domain.DrawResult{
		DrawID:               testDrawID,
		WinningNumbers:       []int{3, 11, 19, 27, 38, 45},
		Timestamp:            testEnd,
		RandomnessProvenance: "simulator:batch-1",
		VerificationStatus:   status,
	}
}

func serve(t *testing.T, svc *MockService, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	router := chi.NewRouter()
	router.Mount("/draws", NewDrawHandler(svc).Routes())

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", fmt.Errorf("%w: %s", domain.ErrDrawNotFound, testDrawID), http.StatusNotFound, ""},
		{"result not found", domain.ErrDrawResultNotFound, http.StatusNotFound, domain.ErrMsgDrawResultNotFound},
		{"conflict", domain.ErrConflict, http.StatusConflict, domain.ErrMsgConflict},
		{"invalid transition", fmt.Errorf("%w: COMPLETED --cancel--> ?", domain.ErrInvalidTransition), http.StatusConflict, ""},
		{"validation", domain.ErrValidation, http.StatusBadRequest, domain.ErrMsgValidation},
		{"invalid range", domain.ErrInvalidRange, http.StatusBadRequest, domain.ErrMsgInvalidRange},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, ErrMsgAuthFailedError},
		{"randomness", fmt.Errorf("%w: upstream 502", domain.ErrRandomnessUnavailable), http.StatusServiceUnavailable, ErrMsgRandomnessUnavailable},
		{"verification", domain.ErrVerificationUnavailable, http.StatusServiceUnavailable, ErrMsgVerificationUnavailable},
		{"internal", errors.New("pq: connection reset by peer"), http.StatusInternalServerError, ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapServiceError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, msg)
			} else {
				assert.Equal(t, tt.err.Error(), msg)
			}
		})
	}
}

func TestHandleCreateDraw(t *testing.T) {
	validBody := map[string]interface{}{
		"name":        "Weekly Jackpot",
		"description": "Six from forty-nine",
		"start_date":  testStart,
		"end_date":    testEnd,
	}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
		expectedField  string
	}{
		{
			name: "Success",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("CreateDraw", mock.Anything, mock.MatchedBy(func(in lottery.CreateDrawInput) bool {
					return in.Name == "Weekly Jackpot" && in.StartDate.Equal(testStart) && in.EndDate.Equal(testEnd)
				})).Return(testDraw(domain.DrawStatusPending), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"status":"PENDING"`,
		},
		{
			name:           "Invalid JSON",
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name: "Status Cannot Be Set",
			body: map[string]interface{}{
				"name":        "Weekly Jackpot",
				"description": "Six from forty-nine",
				"start_date":  testStart,
				"end_date":    testEnd,
				"status":      "COMPLETED",
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name: "Name Too Short",
			body: map[string]interface{}{
				"name":        "ab",
				"description": "Six from forty-nine",
				"start_date":  testStart,
				"end_date":    testEnd,
			},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "name",
		},
		{
			name: "End Before Start",
			body: map[string]interface{}{
				"name":        "Weekly Jackpot",
				"description": "Six from forty-nine",
				"start_date":  testEnd,
				"end_date":    testStart,
			},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "end_date",
		},
		{
			name: "Missing Description",
			body: map[string]interface{}{
				"name":       "Weekly Jackpot",
				"start_date": testStart,
				"end_date":   testEnd,
			},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "description",
		},
		{
			name: "Service Validation Error",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("CreateDraw", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: name must not be blank", domain.ErrValidation))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "name must not be blank",
		},
		{
			name: "Storage Failure Is Not Leaked",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("CreateDraw", mock.Anything, mock.Anything).
					Return(nil, errors.New("failed to create draw: dial tcp 10.0.0.5:5432"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   ErrMsgGenericServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockService{}
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			w := serve(t, svc, http.MethodPost, "/draws", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			if tt.expectedField != "" {
				var resp ValidationErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, domain.KindValidation, resp.Kind)
				assert.Contains(t, resp.Fields, tt.expectedField)
			}
			assert.NotContains(t, w.Body.String(), "10.0.0.5")
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleListDraws(t *testing.T) {
	t.Run("Status Filter And Paging", func(t *testing.T) {
		svc := &MockService{}
		status := domain.DrawStatusInProgress
		svc.On("ListDraws", mock.Anything, repository.DrawFilter{Status: &status, Limit: 10, Offset: 20}).
			Return([]*domain.Draw{testDraw(domain.DrawStatusInProgress)}, nil)

		w := serve(t, svc, http.MethodGet, "/draws?status=in_progress&limit=10&offset=20", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var draws []domain.Draw
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &draws))
		require.Len(t, draws, 1)
		assert.Equal(t, domain.DrawStatusInProgress, draws[0].Status)
		svc.AssertExpectations(t)
	})

	t.Run("Defaults And Cap", func(t *testing.T) {
		svc := &MockService{}
		svc.On("ListDraws", mock.Anything, repository.DrawFilter{Limit: MaxListLimit}).
			Return([]*domain.Draw{}, nil)

		w := serve(t, svc, http.MethodGet, "/draws?limit=100000", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]\n", w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("Zero Limit Uses Default", func(t *testing.T) {
		svc := &MockService{}
		svc.On("ListDraws", mock.Anything, repository.DrawFilter{Limit: DefaultListLimit}).
			Return([]*domain.Draw{}, nil)

		w := serve(t, svc, http.MethodGet, "/draws?limit=0", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	badQueries := []struct {
		name  string
		query string
		msg   string
	}{
		{"Unknown Status", "?status=OPEN", ErrMsgInvalidStatus},
		{"Negative Limit", "?limit=-1", ErrMsgInvalidLimit},
		{"Non-numeric Offset", "?offset=abc", ErrMsgInvalidOffset},
	}
	for _, tt := range badQueries {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockService{}

			w := serve(t, svc, http.MethodGet, "/draws"+tt.query, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.msg, resp.Error)
			assert.Equal(t, domain.KindValidation, resp.Kind)
			svc.AssertNotCalled(t, "ListDraws", mock.Anything, mock.Anything)
		})
	}
}

func TestHandleGetDraw(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := &MockService{}
		svc.On("GetDraw", mock.Anything, testDrawID).Return(testDraw(domain.DrawStatusPending), nil)

		w := serve(t, svc, http.MethodGet, "/draws/"+testDrawID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), testDrawID.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		svc := &MockService{}
		svc.On("GetDraw", mock.Anything, testDrawID).
			Return(nil, fmt.Errorf("%w: %s", domain.ErrDrawNotFound, testDrawID))

		w := serve(t, svc, http.MethodGet, "/draws/"+testDrawID.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, domain.KindNotFound, decodeError(t, w).Kind)
	})

	t.Run("Malformed ID", func(t *testing.T) {
		svc := &MockService{}

		w := serve(t, svc, http.MethodGet, "/draws/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrMsgInvalidDrawID, decodeError(t, w).Error)
		svc.AssertNotCalled(t, "GetDraw", mock.Anything, mock.Anything)
	})
}

func TestHandleUpdateDraw(t *testing.T) {
	t.Run("Partial Update", func(t *testing.T) {
		svc := &MockService{}
		svc.On("UpdateDraw", mock.Anything, testDrawID, mock.MatchedBy(func(u domain.DrawUpdate) bool {
			return u.Name != nil && *u.Name == "Renamed Draw" && u.Description == nil && u.StartDate == nil
		})).Return(testDraw(domain.DrawStatusPending), nil)

		w := serve(t, svc, http.MethodPatch, "/draws/"+testDrawID.String(), map[string]string{"name": "Renamed Draw"})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Not Pending", func(t *testing.T) {
		svc := &MockService{}
		svc.On("UpdateDraw", mock.Anything, testDrawID, mock.Anything).
			Return(nil, fmt.Errorf("%w: draw is IN_PROGRESS", domain.ErrConflict))

		w := serve(t, svc, http.MethodPatch, "/draws/"+testDrawID.String(), map[string]string{"description": "late edit"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, domain.KindConflict, decodeError(t, w).Kind)
	})

	t.Run("Status Field Rejected", func(t *testing.T) {
		svc := &MockService{}

		w := serve(t, svc, http.MethodPatch, "/draws/"+testDrawID.String(), map[string]string{"status": "COMPLETED"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UpdateDraw", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleRemoveDraw(t *testing.T) {
	t.Run("Removed", func(t *testing.T) {
		svc := &MockService{}
		svc.On("RemoveDraw", mock.Anything, testDrawID).Return(nil)

		w := serve(t, svc, http.MethodDelete, "/draws/"+testDrawID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), MsgDrawRemoved)
	})

	t.Run("Completed Draw", func(t *testing.T) {
		svc := &MockService{}
		svc.On("RemoveDraw", mock.Anything, testDrawID).
			Return(fmt.Errorf("%w: completed draws cannot be removed", domain.ErrConflict))

		w := serve(t, svc, http.MethodDelete, "/draws/"+testDrawID.String(), nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandleTransitions(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		method         string
		err            error
		expectedStatus int
		expectedKind   string
	}{
		{"Start", "start", "StartDraw", nil, http.StatusOK, ""},
		{"Start Twice", "start", "StartDraw", fmt.Errorf("%w: IN_PROGRESS --start--> ?", domain.ErrInvalidTransition), http.StatusConflict, domain.KindConflict},
		{"Start Without Caller", "start", "StartDraw", domain.ErrUnauthorized, http.StatusUnauthorized, domain.KindUnauthorized},
		{"Cancel", "cancel", "CancelDraw", nil, http.StatusOK, ""},
		{"Cancel Completed", "cancel", "CancelDraw", fmt.Errorf("%w: COMPLETED --cancel--> ?", domain.ErrInvalidTransition), http.StatusConflict, domain.KindConflict},
		{"Cancel Missing", "cancel", "CancelDraw", domain.ErrDrawNotFound, http.StatusNotFound, domain.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockService{}
			if tt.err != nil {
				svc.On(tt.method, mock.Anything, testDrawID).Return(nil, tt.err)
			} else {
				svc.On(tt.method, mock.Anything, testDrawID).Return(testDraw(domain.DrawStatusInProgress), nil)
			}

			w := serve(t, svc, http.MethodPost, "/draws/"+testDrawID.String()+"/"+tt.path, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedKind != "" {
				assert.Equal(t, tt.expectedKind, decodeError(t, w).Kind)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleCompleteDraw(t *testing.T) {
	lotto := domain.NumberRange{Min: 1, Max: 49}
	path := "/draws/" + testDrawID.String() + "/complete"

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedKind   string
		expectedBody   string
	}{
		{
			name: "Settled",
			body: map[string]int{"count": 6, "min": 1, "max": 49},
			setupMock: func(m *MockService) {
				m.On("CompleteDraw", mock.Anything, testDrawID, 6, lotto).Return(testResult(domain.VerificationUnverified), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"verification_status":"UNVERIFIED"`,
		},
		{
			name: "Zero Minimum Allowed",
			body: map[string]int{"count": 1, "min": 0, "max": 9},
			setupMock: func(m *MockService) {
				m.On("CompleteDraw", mock.Anything, testDrawID, 1, domain.NumberRange{Min: 0, Max: 9}).
					Return(testResult(domain.VerificationUnverified), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Max",
			body:           map[string]int{"count": 6, "min": 1},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   domain.KindValidation,
		},
		{
			name:           "Zero Count",
			body:           map[string]int{"count": 0, "min": 1, "max": 49},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   domain.KindValidation,
		},
		{
			name: "Int32 Extremes Allowed",
			body: map[string]int{"count": 6, "min": math.MinInt32, "max": math.MaxInt32},
			setupMock: func(m *MockService) {
				m.On("CompleteDraw", mock.Anything, testDrawID, 6, domain.NumberRange{Min: math.MinInt32, Max: math.MaxInt32}).
					Return(testResult(domain.VerificationUnverified), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Max Beyond Int32",
			body:           map[string]int{"count": 6, "min": 1, "max": 1 << 40},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   domain.KindValidation,
		},
		{
			name:           "Min Below Int32",
			body:           map[string]int{"count": 6, "min": math.MinInt32 - 1, "max": 10},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   domain.KindValidation,
		},
		{
			name: "Inverted Range",
			body: map[string]int{"count": 6, "min": 49, "max": 1},
			setupMock: func(m *MockService) {
				m.On("CompleteDraw", mock.Anything, testDrawID, 6, domain.NumberRange{Min: 49, Max: 1}).
					Return(nil, domain.ErrInvalidRange)
			},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   domain.KindValidation,
			expectedBody:   domain.ErrMsgInvalidRange,
		},
		{
			name: "Not In Progress",
			body: map[string]int{"count": 6, "min": 1, "max": 49},
			setupMock: func(m *MockService) {
				m.On("CompleteDraw", mock.Anything, testDrawID, 6, lotto).
					Return(nil, fmt.Errorf("%w: PENDING --complete--> ?", domain.ErrInvalidTransition))
			},
			expectedStatus: http.StatusConflict,
			expectedKind:   domain.KindConflict,
		},
		{
			name: "Randomness Unavailable",
			body: map[string]int{"count": 6, "min": 1, "max": 49},
			setupMock: func(m *MockService) {
				m.On("CompleteDraw", mock.Anything, testDrawID, 6, lotto).
					Return(nil, fmt.Errorf("%w: quantum service returned 502", domain.ErrRandomnessUnavailable))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedKind:   domain.KindRandomnessUnavailable,
			expectedBody:   ErrMsgRandomnessUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockService{}
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			w := serve(t, svc, http.MethodPost, path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedKind != "" {
				assert.Contains(t, w.Body.String(), `"kind":"`+tt.expectedKind+`"`)
			}
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			assert.NotContains(t, w.Body.String(), "502")
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleGetDrawResult(t *testing.T) {
	t.Run("Settled", func(t *testing.T) {
		svc := &MockService{}
		svc.On("GetDrawResult", mock.Anything, testDrawID).Return(testResult(domain.VerificationVerified), nil)

		w := serve(t, svc, http.MethodGet, "/draws/"+testDrawID.String()+"/result", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var res domain.DrawResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, []int{3, 11, 19, 27, 38, 45}, res.WinningNumbers)
		assert.Equal(t, domain.VerificationVerified, res.VerificationStatus)
	})

	t.Run("Not Settled", func(t *testing.T) {
		svc := &MockService{}
		svc.On("GetDrawResult", mock.Anything, testDrawID).Return(nil, domain.ErrDrawResultNotFound)

		w := serve(t, svc, http.MethodGet, "/draws/"+testDrawID.String()+"/result", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, domain.KindNotFound, resp.Kind)
		assert.Equal(t, domain.ErrMsgDrawResultNotFound, resp.Error)
	})
}

func TestHandleVerificationCallback(t *testing.T) {
	path := "/draws/" + testDrawID.String() + "/verification"

	t.Run("Verified", func(t *testing.T) {
		svc := &MockService{}
		svc.On("RecordVerification", mock.Anything, testDrawID, domain.VerificationOutcome{
			SubmissionID:   "0xabc",
			Verified:       true,
			AttestationRef: "0xabc@77",
		}).Return(testResult(domain.VerificationVerified), nil)

		w := serve(t, svc, http.MethodPost, path, map[string]interface{}{
			"submission_id":   "0xabc",
			"verified":        true,
			"attestation_ref": "0xabc@77",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"verification_status":"VERIFIED"`)
		svc.AssertExpectations(t)
	})

	t.Run("Failed Outcome Is Not Missing", func(t *testing.T) {
		svc := &MockService{}
		svc.On("RecordVerification", mock.Anything, testDrawID, domain.VerificationOutcome{
			SubmissionID: "0xabc",
			Verified:     false,
		}).Return(testResult(domain.VerificationFailed), nil)

		w := serve(t, svc, http.MethodPost, path, map[string]interface{}{
			"submission_id": "0xabc",
			"verified":      false,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Missing Verified Flag", func(t *testing.T) {
		svc := &MockService{}

		w := serve(t, svc, http.MethodPost, path, map[string]string{"submission_id": "0xabc"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "verified")
	})

	t.Run("Submission Mismatch", func(t *testing.T) {
		svc := &MockService{}
		svc.On("RecordVerification", mock.Anything, testDrawID, mock.Anything).
			Return(nil, fmt.Errorf("%w: submission id does not match", domain.ErrValidation))

		w := serve(t, svc, http.MethodPost, path, map[string]interface{}{
			"submission_id": "0xdef",
			"verified":      true,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.KindValidation, decodeError(t, w).Kind)
	})
}

package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quantacore/skilluplift/internal/apperr"
	"github.com/quantacore/skilluplift/internal/dto"
	"github.com/quantacore/skilluplift/internal/service"
	"github.com/rs/zerolog/log"
)

type AssessmentController struct {
	sessionService service.SessionService
	scoringService service.ScoringService
	historyService service.HistoryService
}

func NewAssessmentController(
	sessionService service.SessionService,
	scoringService service.ScoringService,
	historyService service.HistoryService,
) *AssessmentController {
	return &AssessmentController{
		sessionService: sessionService,
		scoringService: scoringService,
		historyService: historyService,
	}
}

// StartTest godoc
// @Summary Start a new skills test session
// @Description Issues a session with a fixed MCQ and coding question set and a countdown budget. Correct answers are never included.
// @Tags Assessment
// @Accept json
// @Produce json
// @Param request body dto.StartTestRequest true "User starting the test"
// @Success 201 {object} dto.StartTestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "A session is already in progress"
// @Router /tests/start [post]
func (c *AssessmentController) StartTest(ctx *gin.Context) {
	var req dto.StartTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartTest: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	session, err := c.sessionService.Start(ctx.Request.Context(), req.UserID)
	if err != nil {
		log.Warn().Err(err).Uint("userID", req.UserID).Msg("StartTest: Service error")
		ctx.JSON(apperr.HTTPStatus(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, session)
}

// SubmitTest godoc
// @Summary Submit all answers for a session
// @Description Grades the submission and appends the result to the user's history. Resubmitting an already-submitted session returns the stored result unchanged.
// @Tags Assessment
// @Accept json
// @Produce json
// @Param request body dto.SubmitTestRequest true "Session id with MCQ and coding answers"
// @Success 200 {object} dto.TestResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or expired session"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /tests/submit [post]
func (c *AssessmentController) SubmitTest(ctx *gin.Context) {
	var req dto.SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitTest: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.scoringService.Submit(req)
	if err != nil {
		log.Warn().Err(err).Str("sessionID", req.SessionID).Msg("SubmitTest: Service error")
		ctx.JSON(apperr.HTTPStatus(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetTestHistory godoc
// @Summary Get a user's test history with analytics
// @Description Results are ordered newest first. A user with no completed sessions gets an empty history and zeroed analytics.
// @Tags Assessment
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.TestHistoryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/test-history [get]
func (c *AssessmentController) GetTestHistory(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid User ID format"})
		return
	}

	history, err := c.historyService.GetHistory(uint(userID))
	if err != nil {
		log.Error().Err(err).Uint64("userID", userID).Msg("GetTestHistory: Service error")
		ctx.JSON(apperr.HTTPStatus(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, history)
}

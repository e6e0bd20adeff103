package assessment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ptdat/skillgate/internal/dto"
	"github.com/ptdat/skillgate/internal/service"
	"github.com/rs/zerolog/log"
)

// AssessmentController handles the authoring flow: generating candidate
// questions via the LLM, finalizing the reviewed batch, and reading a stored
// set back.
type AssessmentController struct {
	generationSvc service.GenerationService
	assessmentSvc service.AssessmentService
}

func NewAssessmentController(generationSvc service.GenerationService, assessmentSvc service.AssessmentService) *AssessmentController {
	return &AssessmentController{generationSvc: generationSvc, assessmentSvc: assessmentSvc}
}

// GenerateTest godoc
// @Summary Generate assessment questions for a skill selection
// @Description Calls the LLM once per requested question; any single failure aborts the whole batch.
// @Tags Assessment
// @Accept json
// @Produce json
// @Param request body dto.GenerateTestRequest true "Skills with per-type question counts"
// @Success 200 {object} dto.GenerateTestResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or malformed skills"
// @Failure 500 {object} dto.ErrorResponse "Generation failed"
// @Router /generate-test [post]
func (c *AssessmentController) GenerateTest(ctx *gin.Context) {
	var req dto.GenerateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("GenerateTest: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request, missing skills", Details: []string{err.Error()}})
		return
	}

	questions, err := c.generationSvc.GenerateQuestions(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("GenerateTest: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to generate questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.GenerateTestResponse{Status: "success", Questions: questions})
}

// FinalizeTest godoc
// @Summary Persist a reviewed question batch as a question set
// @Description Validates every question, computes total duration and expiry, and stores everything in one transaction.
// @Tags Assessment
// @Accept json
// @Produce json
// @Param request body dto.FinalizeTestRequest true "Questions plus test metadata"
// @Success 201 {object} dto.FinalizeTestResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed, nothing persisted"
// @Failure 500 {object} dto.ErrorResponse "Database operation failed"
// @Router /finalize-test [post]
func (c *AssessmentController) FinalizeTest(ctx *gin.Context) {
	var req dto.FinalizeTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("FinalizeTest: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request, missing questions", Details: []string{err.Error()}})
		return
	}

	resp, err := c.assessmentSvc.FinalizeTest(req)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			log.Warn().Err(err).Msg("FinalizeTest: validation failed")
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Validation failed", Details: []string{ve.Error()}})
			return
		}
		log.Error().Err(err).Msg("FinalizeTest: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Database operation failed", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetQuestionSetQuestions godoc
// @Summary List all persisted questions of a question set
// @Tags Assessment
// @Produce json
// @Param question_set_id path string true "Question set ID"
// @Success 200 {object} dto.QuestionSetQuestionsResponse
// @Failure 404 {object} dto.ErrorResponse "Question set not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /question-set/{question_set_id}/questions [get]
func (c *AssessmentController) GetQuestionSetQuestions(ctx *gin.Context) {
	setID := ctx.Param("question_set_id")
	resp, err := c.assessmentSvc.GetQuestionSetQuestions(setID)
	if err != nil {
		if errors.Is(err, service.ErrQuestionSetNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question set not found"})
			return
		}
		log.Error().Err(err).Str("question_set_id", setID).Msg("GetQuestionSetQuestions: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to fetch questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

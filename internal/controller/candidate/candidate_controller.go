package candidate

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ptdat/skillgate/internal/dto"
	"github.com/ptdat/skillgate/internal/service"
	"github.com/rs/zerolog/log"
)

// CandidateController handles the test-taking flow: serving questions,
// capturing proctoring signals and recordings, and scoring section
// submissions.
type CandidateController struct {
	sessionSvc service.SessionService
	storageSvc *service.StorageService
}

func NewCandidateController(sessionSvc service.SessionService, storageSvc *service.StorageService) *CandidateController {
	return &CandidateController{sessionSvc: sessionSvc, storageSvc: storageSvc}
}

// StartTest godoc
// @Summary Fetch the candidate-facing questions of a question set
// @Tags Candidate
// @Produce json
// @Param question_set_id path string true "Question set ID"
// @Success 200 {object} dto.StartTestResponse
// @Failure 404 {object} dto.ErrorResponse "Question set not found"
// @Failure 410 {object} dto.ErrorResponse "Question set has expired"
// @Failure 500 {object} dto.ErrorResponse
// @Router /test/start/{question_set_id} [get]
func (c *CandidateController) StartTest(ctx *gin.Context) {
	setID := ctx.Param("question_set_id")
	resp, err := c.sessionSvc.StartTest(setID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestionSetNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Question set not found"})
		case errors.Is(err, service.ErrQuestionSetExpired):
			ctx.JSON(http.StatusGone, dto.ErrorResponse{Message: "Question set has expired"})
		default:
			log.Error().Err(err).Str("question_set_id", setID).Msg("StartTest: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start test", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SaveViolations godoc
// @Summary Record proctoring counters for a candidate
// @Description Each call fully replaces the stored counters (last-write-wins).
// @Tags Candidate
// @Accept json
// @Produce json
// @Param request body dto.SaveViolationsRequest true "Cumulative client-side counters"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /test/save_violations [post]
func (c *CandidateController) SaveViolations(ctx *gin.Context) {
	var req dto.SaveViolationsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "candidate_id and question_set_id required", Details: []string{err.Error()}})
		return
	}
	if err := c.sessionSvc.SaveViolations(req); err != nil {
		log.Error().Err(err).Msg("SaveViolations: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save violations", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Violations updated"})
}

// UploadAudio godoc
// @Summary Upload a candidate audio recording
// @Description Multipart upload (field "audio") plus candidate_id, question_set_id and an optional qa_data JSON log.
// @Tags Candidate
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /upload_audio [post]
func (c *CandidateController) UploadAudio(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "audio file required"})
		return
	}
	c.handleUpload(ctx, fileHeader, true)
}

// UploadVideo godoc
// @Summary Upload a candidate video recording
// @Description Multipart upload (field "file") plus candidate_id, question_set_id and an optional qa_data JSON log.
// @Tags Candidate
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /upload_video [post]
func (c *CandidateController) UploadVideo(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "video file required"})
		return
	}
	c.handleUpload(ctx, fileHeader, false)
}

func (c *CandidateController) handleUpload(ctx *gin.Context, fileHeader *multipart.FileHeader, isAudio bool) {
	if fileHeader.Filename == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "empty filename"})
		return
	}
	candidateID := ctx.PostForm("candidate_id")
	questionSetID := ctx.PostForm("question_set_id")
	if candidateID == "" || questionSetID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "candidate_id and question_set_id required"})
		return
	}
	qaRaw := ctx.PostForm("qa_data")

	src, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("Upload: failed to open multipart file")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read uploaded file", Details: []string{err.Error()}})
		return
	}
	defer src.Close()

	now := time.Now()
	var filename string
	if isAudio {
		filename = service.AudioRecordingName(candidateID, fileHeader.Filename, now)
	} else {
		filename = service.VideoRecordingName(candidateID, fileHeader.Filename, now)
	}

	url, err := c.storageSvc.Upload(ctx.Request.Context(), filename, src, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("Upload: storage write failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to store recording", Details: []string{err.Error()}})
		return
	}

	var audioURL, videoURL *string
	resp := dto.UploadResponse{Status: "success", CandidateID: candidateID}
	if isAudio {
		audioURL = &url
		resp.AudioURL = url
	} else {
		videoURL = &url
		resp.VideoURL = url
	}

	if err := c.sessionSvc.SaveRecording(candidateID, questionSetID, audioURL, videoURL, qaRaw); err != nil {
		log.Error().Err(err).Msg("Upload: failed to persist recording on attempt")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save recording", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitSection godoc
// @Summary Score and store a section of candidate responses
// @Description mcq/coding responses go to the external evaluator; evaluator failures degrade to a zero score per item. Results are append-merged, never replaced.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param request body dto.SubmitSectionRequest true "Section responses"
// @Success 200 {object} dto.SubmitSectionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /test/submit_section [post]
func (c *CandidateController) SubmitSection(ctx *gin.Context) {
	var req dto.SubmitSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "candidate_id and question_set_id required", Details: []string{err.Error()}})
		return
	}

	evaluations, err := c.sessionSvc.SubmitSection(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("question_set_id", req.QuestionSetID).Msg("SubmitSection: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to store section", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.SubmitSectionResponse{Message: "Section stored", Evaluations: evaluations})
}

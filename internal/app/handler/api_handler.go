package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"procurement/internal/app/ds"
	"procurement/internal/app/dto"
	"procurement/internal/app/extract"
	"procurement/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestStore: хранилище заявок (repository.Repository или repository.MemoryRepository)
type RequestStore interface {
	CreateRequest(ctx context.Context, req *ds.ProcurementRequest) error
	ListRequests(ctx context.Context, skip, limit int) ([]ds.ProcurementRequest, error)
	GetRequest(ctx context.Context, id int64) (*ds.ProcurementRequest, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// DocumentStore: архив загруженных документов (MinIO)
type DocumentStore interface {
	UploadFile(ctx context.Context, fileData []byte, originalFilename string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// APIHandler содержит обработчики для REST API
type APIHandler struct {
	Repository RequestStore
	Documents  DocumentStore
	Extractor  extract.Extractor
}

const (
	defaultListLimit = 100
	maxDocumentSize  = 20 << 20

	documentKeyHeader = "X-Document-Key"
)

func NewAPIHandler(r RequestStore, documents DocumentStore, extractor extract.Extractor) *APIHandler {
	return &APIHandler{
		Repository: r,
		Documents:  documents,
		Extractor:  extractor,
	}
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + key)
	}
	return v, nil
}

// ============ ДОМЕН ДОКУМЕНТЫ ============

// ExtractDocument распознает загруженный документ
// @Summary Распознавание документа
// @Description Загружает PDF/изображение и возвращает черновик заявки, заполненный моделью
// @Tags Extraction
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Документ"
// @Success 200 {object} dto.ProcurementRequest
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /extract [post]
func (h *APIHandler) ExtractDocument(c *gin.Context) {
	if h.Extractor == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "Extraction is not configured")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "File not found in request")
		return
	}
	if file.Size > maxDocumentSize {
		h.errorResponse(c, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}

	openedFile, err := file.Open()
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Could not read file")
		return
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(io.LimitReader(openedFile, maxDocumentSize))
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Could not read file")
		return
	}

	ctx := c.Request.Context()

	// Архивируем исходник; недоступность MinIO не мешает распознаванию
	var documentKey string
	if h.Documents != nil {
		documentKey, err = h.Documents.UploadFile(ctx, fileData, file.Filename)
		if err != nil {
			logrus.Warnf("Failed to archive document %s: %v", file.Filename, err)
		}
	}

	extracted, err := h.Extractor.Extract(ctx, file.Filename, fileData)
	if err != nil {
		logrus.Error("AI extraction error: ", err)
		if documentKey != "" {
			if err := h.Documents.DeleteFile(ctx, documentKey); err != nil {
				logrus.Warnf("Failed to delete document %s: %v", documentKey, err)
			}
		}
		h.errorResponse(c, http.StatusBadRequest, "Could not extract data.")
		return
	}

	if documentKey != "" {
		c.Header(documentKeyHeader, documentKey)
	}
	c.JSON(http.StatusOK, extracted)
}

// ============ ДОМЕН ЗАЯВКИ ============

// CreateRequest создает заявку
// @Summary Создание заявки
// @Description Сохраняет заявку как есть; товарная группа определяется моделью, если не указана
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body dto.ProcurementRequest true "Заявка"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /requests/ [post]
func (h *APIHandler) CreateRequest(c *gin.Context) {
	var req dto.ProcurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.CommodityGroupID == nil || *req.CommodityGroupID == "" {
		group := h.predictCommodityGroup(c.Request.Context(), req)
		req.CommodityGroupID = &group
	}

	row := toRow(req)
	if err := h.Repository.CreateRequest(c.Request.Context(), &row); err != nil {
		logrus.Error("Error creating request: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Could not create request")
		return
	}

	logrus.Infof("Request %d created (%d order lines)", row.ID, len(row.OrderLines))
	c.JSON(http.StatusCreated, toResponse(row))
}

func (h *APIHandler) predictCommodityGroup(ctx context.Context, req dto.ProcurementRequest) string {
	if h.Extractor == nil {
		return extract.FallbackCommodityGroup
	}
	group, err := h.Extractor.PredictCommodityGroup(ctx, req)
	if err != nil {
		logrus.Warnf("Commodity group prediction failed, using %s: %v", extract.FallbackCommodityGroup, err)
		return extract.FallbackCommodityGroup
	}
	return group
}

// GetRequests получает список заявок
// @Summary Получение списка заявок
// @Tags Requests
// @Produce json
// @Param skip query int false "Сколько пропустить"
// @Param limit query int false "Максимум записей (по умолчанию 100)"
// @Success 200 {array} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /requests/ [get]
func (h *APIHandler) GetRequests(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.Repository.ListRequests(c.Request.Context(), skip, limit)
	if err != nil {
		logrus.Error("Error getting requests: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Could not load requests")
		return
	}

	response := make([]dto.RequestResponse, len(rows))
	for i, row := range rows {
		response[i] = toResponse(row)
	}
	c.JSON(http.StatusOK, response)
}

// GetRequest получает одну заявку
// @Summary Получение заявки по ID
// @Tags Requests
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /requests/{id} [get]
func (h *APIHandler) GetRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request ID")
		return
	}

	row, err := h.Repository.GetRequest(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.errorResponse(c, http.StatusNotFound, "Request not found")
		return
	}
	if err != nil {
		logrus.Error("Error getting request: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Could not load request")
		return
	}

	c.JSON(http.StatusOK, toResponse(*row))
}

// UpdateRequestStatus меняет статус заявки
// @Summary Изменение статуса
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path int true "ID заявки"
// @Param request body dto.StatusUpdateRequest true "Новый статус: Open, In Progress, Closed, Rejected"
// @Success 200 {object} dto.StatusUpdateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /requests/{id}/status [put]
func (h *APIHandler) UpdateRequestStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	status, err := dto.ParseStatus(req.Status)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	err = h.Repository.UpdateStatus(c.Request.Context(), id, string(status))
	if errors.Is(err, repository.ErrNotFound) {
		h.errorResponse(c, http.StatusNotFound, "Request not found")
		return
	}
	if err != nil {
		logrus.Error("Error updating status: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Could not update status")
		return
	}

	logrus.Infof("Request %d status -> %s", id, status)
	c.JSON(http.StatusOK, dto.StatusUpdateResponse{Message: "Status updated"})
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/Stephan2025u/FMS-NEW/models"
	"github.com/Stephan2025u/FMS-NEW/utils"
	"github.com/gin-gonic/gin"
)

const clientCacheTTL = time.Hour

type ClientHandler struct {
	repo  models.Repository
	cache utils.RedisClient
	kafka utils.KafkaProducer
	es    utils.ElasticsearchClient
}

func NewClientHandler(repo models.Repository, cache utils.RedisClient, kafka utils.KafkaProducer, es utils.ElasticsearchClient) *ClientHandler {
	return &ClientHandler{
		repo:  repo,
		cache: cache,
		kafka: kafka,
		es:    es,
	}
}

type ClientCreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Occupation  string `json:"occupation"`
}

// Указатели: nil означает «поле не передано, не трогать».
type ClientUpdateRequest struct {
	Name        *string `json:"name" binding:"omitnil,min=1,max=100"`
	Email       *string `json:"email" binding:"omitnil,email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	Occupation  *string `json:"occupation"`
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req ClientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &models.Client{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Occupation:  req.Occupation,
	}

	if err := h.repo.CreateClient(c.Request.Context(), client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	go publishEvent(h.kafka, "client_created", client)

	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.repo.ListClients(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	id := c.Param("id")

	if h.cache != nil {
		if cached, err := h.cache.GetFromCache(c.Request.Context(), utils.ClientCacheKey(id)); err == nil && cached != "" {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	client, err := h.repo.GetClientByID(c.Request.Context(), id)
	if err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(client); err == nil {
			if err := h.cache.SetToCache(c.Request.Context(), utils.ClientCacheKey(id), string(data), clientCacheTTL); err != nil {
				log.Printf("Failed to cache client %s: %v", id, err)
			}
		}
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id := c.Param("id")

	var req ClientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.DateOfBirth != nil {
		fields["date_of_birth"] = *req.DateOfBirth
	}
	if req.Occupation != nil {
		fields["occupation"] = *req.Occupation
	}

	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	client, err := h.repo.UpdateClientFields(c.Request.Context(), id, fields)
	if err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.invalidateClientCache(c.Request.Context(), id)
	go publishEvent(h.kafka, "client_updated", client)

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id := c.Param("id")

	if err := h.repo.DeleteClientCascade(c.Request.Context(), id); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.invalidateClientCache(c.Request.Context(), id)
	go publishEvent(h.kafka, "client_deleted", map[string]interface{}{"id": id})

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// SearchClients выполняет полнотекстовый поиск по индексу Elasticsearch,
// который наполняет consumer.
func (h *ClientHandler) SearchClients(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	if h.es == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not available"})
		return
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"name", "email", "occupation"},
			},
		},
	}

	results, err := h.es.Search(c.Request.Context(), utils.ClientsIndex, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *ClientHandler) invalidateClientCache(ctx context.Context, id string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.DeleteFromCache(ctx, utils.ClientCacheKey(id)); err != nil {
		log.Printf("Failed to invalidate cache for client %s: %v", id, err)
	}
}

package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/supersafe-ai/guard-agent/internal/api/middleware"
	"github.com/supersafe-ai/guard-agent/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/guard/input").
			To(handler.GuardInput).
			Doc("Run the input guard chain over user-supplied text").
			Metadata(restfulspec.KeyOpenAPITags, []string{"guard"}).
			Reads(models.GuardRequest{}).
			Writes(models.GuardResult{}).
			Returns(200, "OK", models.GuardResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/guard/output").
			To(handler.GuardOutput).
			Doc("Run the output guard chain over generated text").
			Metadata(restfulspec.KeyOpenAPITags, []string{"guard"}).
			Reads(models.GuardRequest{}).
			Writes(models.GuardResult{}).
			Returns(200, "OK", models.GuardResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/chat").
			To(handler.Chat).
			Doc("Chat with the guarded assistant").
			Metadata(restfulspec.KeyOpenAPITags, []string{"chat"}).
			Reads(ChatRequest{}).
			Writes(ChatResponse{}).
			Returns(200, "OK", ChatResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(429, "Too Many Requests", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}

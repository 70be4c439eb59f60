package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper turns an application error into a problem, reporting false when it does not recognise it.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes problem documents, consulting its mappers in order before falling back to a 500.
type Responder struct {
	// BaseURI is prepended to relative problem type URIs.
	BaseURI string
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder; mapper order decides which wins for wrapped errors.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{BaseURI: baseURI, mappers: mappers}
}

// Respond writes the problem, filling Instance from the request path when unset.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError maps err and responds. Unrecognised errors are attached to the gin context and
// answered with a 500 whose detail hides the underlying message.
func (r *Responder) RespondError(c *gin.Context, err error) {
	c.Abort()
	r.Respond(c, r.problemFor(c, err))
}

// RespondStatus keeps a status the handler already decided on, such as a binding failure.
func (r *Responder) RespondStatus(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	switch status {
	case http.StatusBadRequest:
		r.BadRequest(c, err.Error())
	case http.StatusNotFound:
		r.Respond(c, ErrNotFound.WithDetail(err.Error()))
	default:
		r.RespondError(c, err)
	}
}

// BadRequest sends a 400 problem response.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

func (r *Responder) problemFor(c *gin.Context, err error) ProblemDetail {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	_ = c.Error(err)
	return ErrInternal.WithDetail("an unexpected error occurred")
}

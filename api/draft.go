package api

import (
	"errors"
	"io"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/raksh/borewell-capture/external/registry"
	"github.com/raksh/borewell-capture/form"
	"github.com/raksh/borewell-capture/geo"
	"github.com/raksh/borewell-capture/schema"
	"github.com/raksh/borewell-capture/store"
	"github.com/raksh/borewell-capture/utils"
)

// recognizeDraftMiddleware loads the draft named in the path
func (s *Server) recognizeDraftMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := s.drafts.GetDraft(c.Param("draftID"))
		if err != nil {
			abortWithEncoding(c, http.StatusNotFound, errorDraftNotFound)
			return
		}

		c.Set("draft", d)
		c.Next()
	}
}

func draftFromContext(c *gin.Context) (*store.Draft, bool) {
	d, ok := c.MustGet("draft").(*store.Draft)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	}
	return d, ok
}

// draftCreate mounts a new form and starts detecting the device location.
// The body may carry initial field values.
func (s *Server) draftCreate(c *gin.Context) {
	logger := log.WithField("api", "draftCreate")

	var params form.DraftPatch
	if err := c.ShouldBindJSON(&params); err != nil && err != io.EOF {
		logger.WithError(err).Debug(errorInvalidParameters.Message)
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	locator, err := s.draftLocator(c.GetHeader("Geo-Position"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidGeoPosition)
		return
	}

	probe := geo.NewProbe(locator, geo.WithProbeMetrics(s.metrics))
	f := form.New(s.registrar, probe,
		form.WithLocalizer(utils.NewLocalizer(c.GetHeader("Accept-Language"))),
		form.WithMetrics(s.metrics),
	)
	f.Update(params)

	d := store.NewDraft(s.lifetime, f, probe)
	s.drafts.AddDraft(d)

	probe.Start(d.Context())
	go f.Watch(d.Context())

	logger.WithField("draft", d.ID).Debug("draft created")

	c.JSON(http.StatusOK, gin.H{
		"id":     d.ID,
		"result": f.View(),
	})
}

func (s *Server) draftDetail(c *gin.Context) {
	d, ok := draftFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     d.ID,
		"result": d.Form.View(),
	})
}

// draftUpdate edits the given fields. Edits are accepted while submitting.
func (s *Server) draftUpdate(c *gin.Context) {
	d, ok := draftFromContext(c)
	if !ok {
		return
	}

	var params form.DraftPatch
	if err := c.BindJSON(&params); err != nil {
		c.Error(err)
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	d.Form.Update(params)

	c.JSON(http.StatusOK, gin.H{
		"id":     d.ID,
		"result": d.Form.View(),
	})
}

// draftDelete unmounts a draft. A pending location request is dropped.
func (s *Server) draftDelete(c *gin.Context) {
	d, ok := draftFromContext(c)
	if !ok {
		return
	}

	if err := s.drafts.RemoveDraft(d.ID); err != nil {
		abortWithEncoding(c, http.StatusNotFound, errorDraftNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}

func (s *Server) draftUseDeviceLocation(c *gin.Context) {
	d, ok := draftFromContext(c)
	if !ok {
		return
	}

	d.Form.UseDeviceLocation()

	c.JSON(http.StatusOK, gin.H{
		"id":     d.ID,
		"result": d.Form.View(),
	})
}

// draftSubmit validates and registers the draft. The registry call is bound
// to the draft, not to this request.
func (s *Server) draftSubmit(c *gin.Context) {
	d, ok := draftFromContext(c)
	if !ok {
		return
	}

	_, err := d.Form.Submit(d.Context())
	v := d.Form.View()

	var validationErr *form.ValidationError
	var submitErr *form.SubmitError

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"id":     d.ID,
			"result": v,
		})
	case errors.Is(err, form.ErrSubmitting):
		abortWithEncoding(c, http.StatusConflict, errorSubmitting)
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"id":      d.ID,
			"code":    errorInvalidDraft.Code,
			"message": v.Error,
			"result":  v,
		})
	case errors.As(err, &submitErr):
		var apiErr *registry.APIError
		if !errors.As(err, &apiErr) {
			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
		}

		c.JSON(http.StatusBadGateway, gin.H{
			"id":      d.ID,
			"code":    errorRegistrationFailed.Code,
			"message": v.Error,
			"result":  v,
		})
	default:
		shouldInterupt(err, c)
	}
}

// draftSuggestions names the administrative areas around the device fix.
// They are hints only and never written into the draft.
func (s *Server) draftSuggestions(c *gin.Context) {
	d, ok := draftFromContext(c)
	if !ok {
		return
	}

	if s.resolver == nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorSuggestionsUnavailable)
		return
	}

	state := d.Probe.State()
	if !state.HasCoordinates() {
		abortWithEncoding(c, http.StatusBadRequest, errorUnknownLocation)
		return
	}

	location, err := s.resolver.GetPoliticalInfo(schema.Location{
		Latitude:  *state.Latitude,
		Longitude: *state.Longitude,
	})
	if err != nil {
		log.WithField("api", "draftSuggestions").WithError(err).Debug("no suggestion")
		abortWithEncoding(c, http.StatusNotFound, errorNoSuggestion)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": location,
	})
}

package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"calcar/server/internal/curves"
	"calcar/server/internal/images"
	"calcar/server/internal/models"
	"calcar/server/internal/residual"
	"calcar/server/internal/tco"
	"calcar/server/internal/vehicle"
)

type Handler struct {
	source     vehicle.Source
	estimator  *residual.Estimator
	calculator *tco.Calculator
	store      *curves.Store
	images     *images.Fetcher
	logger     *logrus.Logger
}

func NewHandler(source vehicle.Source, estimator *residual.Estimator, calculator *tco.Calculator, store *curves.Store, imageFetcher *images.Fetcher, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		source:     source,
		estimator:  estimator,
		calculator: calculator,
		store:      store,
		images:     imageFetcher,
		logger:     logger,
	}
}

// lookupVehicle resolves the registration path parameter, writing the error
// response itself on failure.
func (h *Handler) lookupVehicle(c *gin.Context) (*models.VehicleRecord, bool) {
	registration := c.Param("registration")
	rec, err := h.source.Lookup(registration)
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
			return nil, false
		}
		h.logger.WithError(err).Error("Failed to look up vehicle")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up vehicle"})
		return nil, false
	}
	return rec, true
}

func (h *Handler) GetVehicle(c *gin.Context) {
	rec, ok := h.lookupVehicle(c)
	if !ok {
		return
	}

	v := vehicle.ToVehicle(rec)
	c.JSON(http.StatusOK, gin.H{
		"vehicle":      v,
		"curve_source": h.estimator.GetCurveSource(v),
	})
}

func (h *Handler) GetTCO(c *gin.Context) {
	rec, ok := h.lookupVehicle(c)
	if !ok {
		return
	}

	yearsStr := c.DefaultQuery("years", "3")
	years, err := strconv.Atoi(yearsStr)
	if err != nil || years < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid years parameter"})
		return
	}

	v := vehicle.ToVehicle(rec)

	purchasePrice := float64(rec.ListPrice)
	if priceStr := c.Query("price"); priceStr != "" {
		purchasePrice, err = strconv.ParseFloat(priceStr, 64)
		if err != nil || purchasePrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price parameter"})
			return
		}
	}

	c.JSON(http.StatusOK, h.calculator.Project(v, purchasePrice, years))
}

func (h *Handler) GetCurveSummary(c *gin.Context) {
	table := h.store.Current()
	if table == nil {
		c.JSON(http.StatusOK, gin.H{
			"loaded": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loaded":          true,
		"total_curves":    table.TotalCurves,
		"modifiers":       len(table.SpecialModifiers),
		"generated_at":    table.GeneratedAt,
		"min_data_points": table.MinDataPoints,
		"note":            table.Note,
	})
}

func (h *Handler) GetCurveSource(c *gin.Context) {
	makeName := c.Query("make")
	fuelType := c.Query("fuel")
	if makeName == "" && fuelType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "make or fuel query parameter required"})
		return
	}

	c.JSON(http.StatusOK, h.estimator.FindBestCurve(makeName, fuelType))
}

func (h *Handler) ReloadCurves(c *gin.Context) {
	if err := h.store.Load(); err != nil {
		h.logger.WithError(err).Error("Failed to reload curve table")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload curve table"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Curve table reloaded",
	})
}

func (h *Handler) GetVehicleImage(c *gin.Context) {
	rec, ok := h.lookupVehicle(c)
	if !ok {
		return
	}

	imageURL, err := h.images.VehicleImage(rec.Make, rec.Model)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No image available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registration": rec.Registration,
		"image_url":    imageURL,
	})
}

package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/identity-api/internal/handler/dto"
	apperrors "github.com/yourusername/identity-api/internal/pkg/errors"
	"github.com/yourusername/identity-api/internal/service"
)

// UserHandler serves user identity endpoints
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the authenticated caller's own record
func (h *UserHandler) Me(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetByID(userID.(uint))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("[UserHandler] Failed to load user ID=%v: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.NewUserDTO(user))
}

// ListUsers returns a paginated user list for the admin panel
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}

	users, err := h.userService.List(page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error listing users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// ExportUsers streams the full user table as an XLSX download
func (h *UserHandler) ExportUsers(c *gin.Context) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"users-%s.xlsx\"", time.Now().Format("2006-01-02")))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Users"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[UserHandler] Failed to create StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"ID", "Email", "Email Verified", "Admin", "Created At"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[UserHandler] Failed to write headers: %v", err)
	}

	const exportPageSize = 500
	rowNum := 2
	for page := 1; ; page++ {
		users, err := h.userService.List(page, exportPageSize)
		if err != nil {
			log.Printf("[UserHandler] Failed to load users page %d for export: %v", page, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export users"})
			return
		}

		for _, user := range users.Users {
			cell := fmt.Sprintf("A%d", rowNum)
			row := []interface{}{user.ID, sanitizeForExcel(user.Email), user.EmailVerified, user.IsAdmin, user.CreatedAt.Format(time.RFC3339)}
			if err := sw.SetRow(cell, row); err != nil {
				log.Printf("[UserHandler] Failed to write row %d: %v", rowNum, err)
			}
			rowNum++
		}

		if len(users.Users) < exportPageSize {
			break
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[UserHandler] Failed to flush StreamWriter: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[UserHandler] Failed to write Excel to response: %v", err)
	}
}

// sanitizeForExcel escapes values to prevent formula injection in Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Characters that start a formula in Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

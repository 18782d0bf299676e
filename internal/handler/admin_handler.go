package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/GTDGit/kaira_store/internal/middleware"
	"github.com/GTDGit/kaira_store/internal/models"
	"github.com/GTDGit/kaira_store/internal/repository"
	"github.com/GTDGit/kaira_store/internal/service"
	"github.com/GTDGit/kaira_store/internal/storage"
	"github.com/GTDGit/kaira_store/internal/utils"
)

const productsPath = "/admin/products"

// AdminHandler serves the gated admin pages. Every route must sit behind
// middleware.RequireAdmin.
type AdminHandler struct {
	render  *Renderer
	uploads storage.Store
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(render *Renderer, uploads storage.Store) *AdminHandler {
	return &AdminHandler{render: render, uploads: uploads}
}

func (h *AdminHandler) repo(c *gin.Context) (*repository.ProductRepository, bool) {
	q, err := middleware.Querier(c)
	if err != nil {
		h.render.Fail(c, err)
		return nil, false
	}
	return repository.NewProductRepository(q), true
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	repo, ok := h.repo(c)
	if !ok {
		return
	}
	stats, err := service.NewDashboardService(repo).Stats(c.Request.Context())
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	h.render.Page(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"Title": "Admin — Dashboard",
		"Stats": stats,
	})
}

// Products handles GET /admin/products
func (h *AdminHandler) Products(c *gin.Context) {
	repo, ok := h.repo(c)
	if !ok {
		return
	}
	products, err := service.NewCatalogService(repo).AdminList(c.Request.Context())
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	h.render.Page(c, http.StatusOK, "admin_products.html", gin.H{
		"Title":    "Admin — Products",
		"Products": products,
	})
}

// AddForm handles GET /admin/products/add
func (h *AdminHandler) AddForm(c *gin.Context) {
	h.renderForm(c, "Add product", productsPath+"/add", &service.ProductForm{}, nil, "")
}

// Add handles POST /admin/products/add
func (h *AdminHandler) Add(c *gin.Context) {
	form, upload, err := bindProductForm(c)
	if ve, ok := utils.IsValidation(err); ok {
		h.renderForm(c, "Add product", productsPath+"/add", form, nil, ve.Message)
		return
	}
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	repo, ok := h.repo(c)
	if !ok {
		return
	}

	_, err = service.NewProductAdminService(repo, h.uploads).Create(c.Request.Context(), form, upload)
	if ve, ok := utils.IsValidation(err); ok {
		h.renderForm(c, "Add product", productsPath+"/add", form, nil, ve.Message)
		return
	}
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	h.render.Redirect(c, productsPath, "Product created.")
}

// EditForm handles GET /admin/products/:id/edit
func (h *AdminHandler) EditForm(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		h.render.NotFound(c)
		return
	}
	repo, ok := h.repo(c)
	if !ok {
		return
	}
	product, err := service.NewCatalogService(repo).GetByID(c.Request.Context(), id)
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	h.renderForm(c, "Edit product", editPath(id), formFromProduct(product), product, "")
}

// Edit handles POST /admin/products/:id/edit
func (h *AdminHandler) Edit(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		h.render.NotFound(c)
		return
	}
	form, upload, bindErr := bindProductForm(c)
	if _, isValidation := utils.IsValidation(bindErr); bindErr != nil && !isValidation {
		h.render.Fail(c, bindErr)
		return
	}
	repo, ok := h.repo(c)
	if !ok {
		return
	}

	err := bindErr
	if err == nil {
		_, err = service.NewProductAdminService(repo, h.uploads).Update(c.Request.Context(), id, form, upload)
	}
	if ve, isValidation := utils.IsValidation(err); isValidation {
		current, getErr := service.NewCatalogService(repo).GetByID(c.Request.Context(), id)
		if getErr != nil {
			h.render.Fail(c, getErr)
			return
		}
		h.renderForm(c, "Edit product", editPath(id), form, current, ve.Message)
		return
	}
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	h.render.Redirect(c, productsPath, "Product updated.")
}

// Delete handles POST /admin/products/:id/delete
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		h.render.NotFound(c)
		return
	}
	repo, ok := h.repo(c)
	if !ok {
		return
	}
	if err := service.NewProductAdminService(repo, h.uploads).Delete(c.Request.Context(), id); err != nil {
		h.render.Fail(c, err)
		return
	}
	h.render.Redirect(c, productsPath, "Product deleted.")
}

func (h *AdminHandler) renderForm(c *gin.Context, title, action string, form *service.ProductForm, product *models.Product, message string) {
	h.render.Page(c, http.StatusOK, "admin_product_form.html", gin.H{
		"Title":   title,
		"Action":  action,
		"Form":    form,
		"Product": product,
		"Error":   message,
	})
}

// requiredMessages are shown when a field is missing from the submitted form.
var requiredMessages = map[string]*utils.ValidationError{
	"Name":        utils.NewValidationError("name", "Name is required."),
	"Category":    utils.NewValidationError("category", "Category is required."),
	"Price":       utils.NewValidationError("price", "Price must be a number."),
	"Description": utils.NewValidationError("description", "Description is required."),
}

// bindProductForm reads the text fields and the optional image file. A
// missing required field yields the partially bound form and a
// *utils.ValidationError.
func bindProductForm(c *gin.Context) (*service.ProductForm, *service.ImageUpload, error) {
	var form service.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			if ve, ok := requiredMessages[fieldErrs[0].Field()]; ok {
				return &form, nil, ve
			}
			return &form, nil, utils.NewValidationError(fieldErrs[0].Field(), "Please fill in every field.")
		}
		if isTooLarge(err) {
			return nil, nil, utils.ErrRequestTooLarge
		}
		return nil, nil, err
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return &form, nil, nil
	case err != nil:
		if isTooLarge(err) {
			return nil, nil, utils.ErrRequestTooLarge
		}
		return nil, nil, err
	}
	return &form, service.UploadFromFileHeader(fh), nil
}

// formFromProduct pre-fills the edit form. The stored image is shown next
// to the form rather than echoed into image_url, so a new upload is never
// shadowed by the old URL.
func formFromProduct(p *models.Product) *service.ProductForm {
	return &service.ProductForm{
		Name:        p.Name,
		Category:    p.Category,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Description: p.Description,
	}
}

func editPath(id int64) string {
	return productsPath + "/" + strconv.FormatInt(id, 10) + "/edit"
}

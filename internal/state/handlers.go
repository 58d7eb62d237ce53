package state

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minsukim/fishmarket-api/internal/pricing"
	"github.com/minsukim/fishmarket-api/internal/receipt"
	"github.com/minsukim/fishmarket-api/internal/trade"
	"github.com/minsukim/fishmarket-api/internal/types"
	"github.com/minsukim/fishmarket-api/pkg/response"
)

// GinHandlers contains the HTTP handlers that expose the state
// manager's operations. The presentation layer never touches the state
// slices directly.
type GinHandlers struct {
	manager *Manager
}

func NewGinHandlers(manager *Manager) *GinHandlers {
	return &GinHandlers{manager: manager}
}

// GetHistoryHandler handles GET requests for the saved trade history,
// newest first.
func (h *GinHandlers) GetHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, h.manager.History())
	}
}

// CreateTradeHandler handles POST requests to save a new trade. The
// store assigns the ID; any ID in the body is ignored. A request
// without a cart saves the current in-progress cart.
func (h *GinHandlers) CreateTradeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input TradeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		input.ID = ""

		saved, err := h.manager.SaveTrade(c.Request.Context(), input)
		switch {
		case errors.Is(err, ErrValidation):
			response.ValidationFailed(c, err.Error())
		case err != nil:
			response.InternalError(c, "failed to save trade")
		default:
			response.Success(c, saved)
		}
	}
}

// UpdateTradeHandler handles PUT requests to merge-update a saved
// trade. URL parameter: trade_id.
func (h *GinHandlers) UpdateTradeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input TradeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		input.ID = c.Param("trade_id")

		saved, err := h.manager.SaveTrade(c.Request.Context(), input)
		switch {
		case errors.Is(err, ErrValidation):
			response.ValidationFailed(c, err.Error())
		case errors.Is(err, trade.ErrNotFound):
			response.NotFound(c, "Trade not found")
		case err != nil:
			response.InternalError(c, "failed to save trade")
		default:
			response.Success(c, saved)
		}
	}
}

// DeleteTradeHandler handles DELETE requests for a trade. The remote
// delete is only issued when the request carries confirm=true.
func (h *GinHandlers) DeleteTradeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("trade_id")
		confirmed := c.Query("confirm") == "true"

		err := h.manager.DeleteTrade(c.Request.Context(), id, confirmed)
		switch {
		case errors.Is(err, ErrNotConfirmed):
			response.ConfirmationRequired(c, "deleting a trade requires confirm=true")
		case errors.Is(err, trade.ErrNotFound):
			response.NotFound(c, "Trade not found")
		case err != nil:
			response.InternalError(c, "failed to delete trade")
		default:
			response.Success(c, gin.H{"deleted": id})
		}
	}
}

// ReceiptHandler renders the printable receipt for a saved trade as
// plain text.
func (h *GinHandlers) ReceiptHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := h.manager.TradeByID(c.Param("trade_id"))
		if !ok {
			response.NotFound(c, "Trade not found")
			return
		}

		c.String(http.StatusOK, receipt.Render(t, h.manager.ShopInfo()))
	}
}

// GetCartHandler returns the in-progress cart.
func (h *GinHandlers) GetCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, h.manager.Cart())
	}
}

// CartTotalHandler returns the subtotal, commission and total for the
// in-progress cart.
func (h *GinHandlers) CartTotalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, pricing.CalculateTradeTotal(h.manager.Cart()))
	}
}

// AddCartItemHandler handles POST requests to add a product to the
// cart. Items identical in name, unit and price merge into one row.
func (h *GinHandlers) AddCartItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var product ProductInput
		if err := c.ShouldBindJSON(&product); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		item, err := h.manager.AddToCart(product)
		if err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		response.Success(c, item)
	}
}

type cartItemUpdate struct {
	Field string `json:"field" binding:"required,oneof=price weight"`
	Value string `json:"value"`
}

// UpdateCartItemHandler handles PATCH requests that write one numeric
// field of one cart row. URL parameter: item_id.
func (h *GinHandlers) UpdateCartItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid item id")
			return
		}

		var update cartItemUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		h.manager.UpdateCartItem(id, update.Field, update.Value)
		response.Success(c, h.manager.Cart())
	}
}

// RemoveCartItemHandler handles DELETE requests for one cart row.
func (h *GinHandlers) RemoveCartItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid item id")
			return
		}

		h.manager.RemoveFromCart(id)
		response.Success(c, h.manager.Cart())
	}
}

// ClearCartHandler empties the cart.
func (h *GinHandlers) ClearCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.manager.ClearCart()
		response.Success(c, h.manager.Cart())
	}
}

// SetCartHandler replaces the cart wholesale, used when re-opening a
// saved trade for editing.
func (h *GinHandlers) SetCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []types.CartItem
		if err := c.ShouldBindJSON(&items); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		h.manager.SetCartItems(items)
		response.Success(c, h.manager.Cart())
	}
}

// GetFavoritesHandler returns the pinned products.
func (h *GinHandlers) GetFavoritesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, h.manager.Favorites())
	}
}

// SetFavoritesHandler replaces the pinned products.
func (h *GinHandlers) SetFavoritesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var favorites []types.Favorite
		if err := c.ShouldBindJSON(&favorites); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		h.manager.SetFavorites(favorites)
		response.Success(c, h.manager.Favorites())
	}
}

// GetCustomersHandler returns the pinned customer names.
func (h *GinHandlers) GetCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, h.manager.CustomerFavorites())
	}
}

// SetCustomersHandler replaces the pinned customer names.
func (h *GinHandlers) SetCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var customers []types.CustomerFavorite
		if err := c.ShouldBindJSON(&customers); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		h.manager.SetCustomerFavorites(customers)
		response.Success(c, h.manager.CustomerFavorites())
	}
}

// GetShopInfoHandler returns the shop profile.
func (h *GinHandlers) GetShopInfoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, h.manager.ShopInfo())
	}
}

// UpdateShopInfoHandler replaces the shop profile wholesale.
func (h *GinHandlers) UpdateShopInfoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var info types.ShopInfo
		if err := c.ShouldBindJSON(&info); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		h.manager.UpdateShopInfo(info)
		response.Success(c, h.manager.ShopInfo())
	}
}

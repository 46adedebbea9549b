package service

import "strconv"

const (
	pathLogin    = "/auth/login"
	pathRegister = "/auth/register"
	pathValidate = "/auth/validate"
	pathLogout   = "/auth/logout"

	pathRestaurants        = "/api/v1/restaurants"
	pathRegisterRestaurant = "/api/v1/restaurants/register"
	pathCategories         = "/api/v1/restaurants/categories"
)

func restaurantPath(id int) string {
	return pathRestaurants + "/" + strconv.Itoa(id)
}

func updateRestaurantPath(id int) string {
	return pathRestaurants + "/update/" + strconv.Itoa(id)
}

func reviewsPath(id int) string {
	return restaurantPath(id) + "/reviews"
}

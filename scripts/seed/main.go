// Package main implements a standalone seed script that populates the
// UrbanPocket platform with realistic test data. The admin account is
// upserted directly into MongoDB (registration only issues customer and
// seller roles); everything else goes through the running HTTP services.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// --------------------------------------------------------------------------
// Configuration helpers
// --------------------------------------------------------------------------

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// --------------------------------------------------------------------------
// HTTP helpers
// --------------------------------------------------------------------------

func httpDo(method, url, token string, body any) (map[string]any, int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var result map[string]any
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	if resp.StatusCode >= 400 {
		return result, resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	return result, resp.StatusCode, nil
}

func httpPost(url, token string, body any) (map[string]any, int, error) {
	return httpDo(http.MethodPost, url, token, body)
}

// dataField digs a string field out of the response envelope's data object.
func dataField(resp map[string]any, field string) string {
	data, ok := resp["data"].(map[string]any)
	if !ok {
		return ""
	}
	v, _ := data[field].(string)
	return v
}

// login authenticates and returns the access token.
func login(userURL, email, password string) (string, error) {
	resp, _, err := httpPost(userURL+"/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	data, _ := resp["data"].(map[string]any)
	tokens, _ := data["tokens"].(map[string]any)
	token, _ := tokens["access_token"].(string)
	if token == "" {
		return "", fmt.Errorf("no access token in login response")
	}
	return token, nil
}

// registerOrLogin registers the account, falling back to login when the
// email is already taken from a previous seed run.
func registerOrLogin(userURL, email, password, name, role string) (string, error) {
	resp, status, err := httpPost(userURL+"/api/auth/register", "", map[string]any{
		"email":    email,
		"password": password,
		"name":     name,
		"role":     role,
	})
	if err != nil {
		if status == http.StatusConflict {
			return login(userURL, email, password)
		}
		return "", err
	}
	data, _ := resp["data"].(map[string]any)
	tokens, _ := data["tokens"].(map[string]any)
	token, _ := tokens["access_token"].(string)
	return token, nil
}

// --------------------------------------------------------------------------
// Data definitions
// --------------------------------------------------------------------------

type categoryDef struct {
	name        string
	description string
	parent      string // name of parent category, resolved after insert
	id          string // populated after insert
}

type productDef struct {
	name        string
	description string
	brand       string
	category    string
	id          string // populated after insert
}

type variantDef struct {
	product  string
	sku      string
	baseUnit string
	options  map[string]string
	price    int64 // minor units
	id       string
}

type itemDef struct {
	variantSKU string
	batch      string
	stock      int64
	price      int64
	status     string
	mfg        string
	exp        string
	gst        float64
}

// --------------------------------------------------------------------------
// main
// --------------------------------------------------------------------------

func main() {
	log.SetFlags(log.Ltime | log.Lmsgprefix)
	log.SetPrefix("[seed] ")

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	dbName := getEnv("SEED_DB_NAME", "urbanpocket")
	userURL := getEnv("USER_URL", "http://localhost:8000")
	catalogURL := getEnv("CATALOG_URL", "http://localhost:8001")
	inventoryURL := getEnv("INVENTORY_URL", "http://localhost:8002")
	cartURL := getEnv("CART_URL", "http://localhost:8003")
	orderURL := getEnv("ORDER_URL", "http://localhost:8004")
	adminPassword := getEnv("SEED_ADMIN_PASSWORD", "Admin1234")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// ---------------------------------------------------------------
	// 1. Upsert the admin account directly in MongoDB
	// ---------------------------------------------------------------
	log.Println("Connecting to MongoDB...")
	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("ping mongodb: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 12)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	now := time.Now().UTC()
	_, err = client.Database(dbName).Collection("users").UpdateOne(ctx,
		bson.D{{Key: "email", Value: "admin@urbanpocket.dev"}},
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "password_hash", Value: string(hash)},
				{Key: "name", Value: "Seed Admin"},
				{Key: "role", Value: "admin"},
				{Key: "is_active", Value: true},
				{Key: "updated_at", Value: now},
			}},
			{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: now}}},
		},
		mongooptions.Update().SetUpsert(true),
	)
	if err != nil {
		log.Fatalf("upsert admin user: %v", err)
	}
	log.Println("Admin account ready: admin@urbanpocket.dev")

	adminToken, err := login(userURL, "admin@urbanpocket.dev", adminPassword)
	if err != nil {
		log.Fatalf("admin login: %v", err)
	}

	// ---------------------------------------------------------------
	// 2. Register seller and customer accounts
	// ---------------------------------------------------------------
	sellerToken, err := registerOrLogin(userURL, "seller@urbanpocket.dev", "Seller1234", "Fresh Farms Co", "seller")
	if err != nil {
		log.Fatalf("seller account: %v", err)
	}
	customerToken, err := registerOrLogin(userURL, "customer@urbanpocket.dev", "Customer1234", "Asha Verma", "customer")
	if err != nil {
		log.Fatalf("customer account: %v", err)
	}
	log.Println("Seller and customer accounts ready.")

	// ---------------------------------------------------------------
	// 3. Seed categories (admin only)
	// ---------------------------------------------------------------
	categories := []categoryDef{
		{name: "Dairy & Eggs", description: "Milk, curd, paneer, butter and eggs"},
		{name: "Milk", description: "Fresh and toned milk", parent: "Dairy & Eggs"},
		{name: "Curd & Yogurt", description: "Curd, yogurt and lassi", parent: "Dairy & Eggs"},
		{name: "Bakery", description: "Breads, buns and cakes"},
		{name: "Snacks", description: "Chips, namkeen and biscuits"},
		{name: "Beverages", description: "Juices, soft drinks and tea"},
	}

	categoryIDs := make(map[string]string)
	log.Println("Seeding categories...")
	for i := range categories {
		body := map[string]any{
			"name":        categories[i].name,
			"description": categories[i].description,
		}
		if categories[i].parent != "" {
			parentID, ok := categoryIDs[categories[i].parent]
			if !ok {
				log.Fatalf("category %q: parent %q not seeded yet", categories[i].name, categories[i].parent)
			}
			body["parentCategory"] = parentID
		}
		resp, status, err := httpPost(catalogURL+"/api/category/create", adminToken, body)
		if err != nil {
			if status == http.StatusConflict {
				log.Printf("  Category %q already exists, skipping", categories[i].name)
				continue
			}
			log.Fatalf("create category %q: %v", categories[i].name, err)
		}
		categories[i].id = dataField(resp, "id")
		categoryIDs[categories[i].name] = categories[i].id
		log.Printf("  Category: %s (id=%s)", categories[i].name, categories[i].id)
	}

	// ---------------------------------------------------------------
	// 4. Seed products and variants (seller)
	// ---------------------------------------------------------------
	products := []productDef{
		{name: "Farm Fresh Milk", description: "Pasteurized full-cream cow milk sourced daily from local farms.", brand: "Fresh Farms", category: "Milk"},
		{name: "Homestyle Curd", description: "Thick set curd cultured in small batches from full-cream milk.", brand: "Fresh Farms", category: "Curd & Yogurt"},
		{name: "Whole Wheat Bread", description: "Soft sandwich loaf baked with 100% atta and no maida.", brand: "Daily Bake", category: "Bakery"},
		{name: "Masala Potato Chips", description: "Crunchy kettle-cooked chips tossed in a tangy masala blend.", brand: "CrunchTime", category: "Snacks"},
		{name: "Mango Nectar", description: "Alphonso mango juice with no added preservatives.", brand: "OrchardPress", category: "Beverages"},
	}

	log.Println("Seeding products...")
	for i := range products {
		body := map[string]any{
			"name":        products[i].name,
			"description": products[i].description,
			"brand":       products[i].brand,
		}
		if id, ok := categoryIDs[products[i].category]; ok {
			body["categoryId"] = id
		}
		resp, status, err := httpPost(catalogURL+"/api/product/create", sellerToken, body)
		if err != nil {
			if status == http.StatusConflict {
				log.Printf("  Product %q already exists, skipping", products[i].name)
				continue
			}
			log.Fatalf("create product %q: %v", products[i].name, err)
		}
		products[i].id = dataField(resp, "id")
		log.Printf("  Product: %s (id=%s)", products[i].name, products[i].id)
	}

	productIDs := make(map[string]string)
	for _, p := range products {
		productIDs[p.name] = p.id
	}

	variants := []variantDef{
		{product: "Farm Fresh Milk", sku: "MILK-FC-500ML", baseUnit: "ml", options: map[string]string{"size": "500ml"}, price: 3300},
		{product: "Farm Fresh Milk", sku: "MILK-FC-1L", baseUnit: "ml", options: map[string]string{"size": "1l"}, price: 6500},
		{product: "Homestyle Curd", sku: "CURD-400G", baseUnit: "g", options: map[string]string{"size": "400g"}, price: 4000},
		{product: "Whole Wheat Bread", sku: "BREAD-WW-400G", baseUnit: "g", options: map[string]string{"size": "400g"}, price: 4500},
		{product: "Masala Potato Chips", sku: "CHIPS-MSL-150G", baseUnit: "g", options: map[string]string{"flavour": "masala", "size": "150g"}, price: 5000},
		{product: "Mango Nectar", sku: "JUICE-MNG-1L", baseUnit: "ml", options: map[string]string{"size": "1l"}, price: 12000},
	}

	variantIDs := make(map[string]string)
	log.Println("Seeding variants...")
	for i := range variants {
		productID := productIDs[variants[i].product]
		if productID == "" {
			log.Printf("  WARNING: variant %s: product %q not seeded, skipping", variants[i].sku, variants[i].product)
			continue
		}
		resp, status, err := httpPost(catalogURL+"/api/variant/create", sellerToken, map[string]any{
			"productId": productID,
			"sku":       variants[i].sku,
			"baseUnit":  variants[i].baseUnit,
			"options":   variants[i].options,
			"price":     map[string]any{"amount": variants[i].price, "currency": "INR"},
		})
		if err != nil {
			if status == http.StatusConflict {
				log.Printf("  Variant %s already exists, skipping", variants[i].sku)
				continue
			}
			log.Fatalf("create variant %s: %v", variants[i].sku, err)
		}
		variants[i].id = dataField(resp, "id")
		variantIDs[variants[i].sku] = variants[i].id
		log.Printf("  Variant: %s (id=%s)", variants[i].sku, variants[i].id)
	}

	// ---------------------------------------------------------------
	// 5. Seed inventory items (seller)
	// ---------------------------------------------------------------
	mfg := now.AddDate(0, 0, -2).Format("2006-01-02")
	items := []itemDef{
		{variantSKU: "MILK-FC-500ML", batch: "MILK-B1", stock: 20000, price: 7, status: "Sealed", mfg: mfg, exp: now.AddDate(0, 0, 5).Format("2006-01-02"), gst: 0},
		{variantSKU: "MILK-FC-1L", batch: "MILK-B2", stock: 50000, price: 7, status: "Sealed", mfg: mfg, exp: now.AddDate(0, 0, 5).Format("2006-01-02"), gst: 0},
		{variantSKU: "CURD-400G", batch: "CURD-B1", stock: 16000, price: 10, status: "Sealed", mfg: mfg, exp: now.AddDate(0, 0, 10).Format("2006-01-02"), gst: 5},
		{variantSKU: "BREAD-WW-400G", batch: "BREAD-B1", stock: 8000, price: 11, status: "Sealed", mfg: mfg, exp: now.AddDate(0, 0, 4).Format("2006-01-02"), gst: 5},
		{variantSKU: "CHIPS-MSL-150G", batch: "CHIPS-B1", stock: 30000, price: 33, status: "Sealed", mfg: mfg, exp: now.AddDate(0, 6, 0).Format("2006-01-02"), gst: 12},
		{variantSKU: "JUICE-MNG-1L", batch: "JUICE-B1", stock: 40000, price: 12, status: "Sealed", mfg: mfg, exp: now.AddDate(0, 3, 0).Format("2006-01-02"), gst: 12},
	}

	log.Println("Seeding inventory items...")
	for _, item := range items {
		variantID := variantIDs[item.variantSKU]
		if variantID == "" {
			log.Printf("  WARNING: item for %s: variant not seeded, skipping", item.variantSKU)
			continue
		}
		_, status, err := httpPost(inventoryURL+"/api/inventory-item/create", sellerToken, map[string]any{
			"variantId":        variantID,
			"batchNumber":      item.batch,
			"stockInBaseUnits": item.stock,
			"pricePerBaseUnit": map[string]any{"amount": item.price, "currency": "INR"},
			"status":           item.status,
			"manufacturingDetails": map[string]any{
				"mfgDate": item.mfg,
				"expDate": item.exp,
			},
			"gstPercentage": item.gst,
		})
		if err != nil {
			if status == http.StatusConflict {
				log.Printf("  Item batch %s already exists, skipping", item.batch)
				continue
			}
			log.Fatalf("create inventory item %s: %v", item.batch, err)
		}
		log.Printf("  Inventory: %s batch %s", item.variantSKU, item.batch)
	}

	// ---------------------------------------------------------------
	// 6. Seed a customer cart and a placed order
	// ---------------------------------------------------------------
	log.Println("Seeding customer cart...")
	cartLines := []struct {
		sku   string
		name  string
		price int64
		qty   int
	}{
		{"MILK-FC-1L", "Farm Fresh Milk 1L", 6500, 2},
		{"BREAD-WW-400G", "Whole Wheat Bread 400g", 4500, 1},
	}
	for _, line := range cartLines {
		variantID := variantIDs[line.sku]
		if variantID == "" {
			continue
		}
		if _, _, err := httpPost(cartURL+"/api/cart/items", customerToken, map[string]any{
			"variant_id": variantID,
			"name":       line.name,
			"sku":        line.sku,
			"unit_price": line.price,
			"currency":   "INR",
			"quantity":   line.qty,
		}); err != nil {
			log.Fatalf("add cart item %s: %v", line.sku, err)
		}
		log.Printf("  Cart: %d x %s", line.qty, line.sku)
	}

	log.Println("Placing a sample order...")
	orderItems := []map[string]any{}
	for _, line := range cartLines {
		if variantIDs[line.sku] == "" {
			continue
		}
		orderItems = append(orderItems, map[string]any{
			"variant_id": variantIDs[line.sku],
			"name":       line.name,
			"quantity":   line.qty,
			"unit_price": line.price,
		})
	}
	if len(orderItems) > 0 {
		resp, _, err := httpPost(orderURL+"/api/order/create", customerToken, map[string]any{
			"currency": "INR",
			"items":    orderItems,
		})
		if err != nil {
			log.Fatalf("create order: %v", err)
		}
		log.Printf("  Order placed (id=%s)", dataField(resp, "id"))
	}

	log.Println("Seed complete.")
}

package repository

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const (
	defaultVectorDimension = 384

	// documentKeyPrefix is the stable key prefix for indexed photo documents.
	documentKeyPrefix = "photo:"
)

// documentNamespace is the UUIDv5 namespace for deriving Qdrant point IDs
// from photo document keys. Derivation is deterministic so concurrent
// indexing passes for the same photo converge on one point.
var documentNamespace = uuid.MustParse("7c9e6f54-2d1b-4a8e-9f3c-5b6a1d0e8c42")

// VectorConnectionConfig holds configuration for the Qdrant connection.
type VectorConnectionConfig struct {
	Host            string
	Port            int
	Collection      string
	APIKey          string // Qdrant Cloud API Key (enables TLS automatically)
	UseTLS          bool   // Explicitly enable TLS without API Key
	VectorDimension int
}

// apiKeyInterceptor creates a unary interceptor that adds API key to metadata
func apiKeyInterceptor(apiKey string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", apiKey)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// VectorRepository stores and retrieves indexed photo documents in Qdrant.
type VectorRepository struct {
	conn            *grpc.ClientConn
	pointsClient    pb.PointsClient
	collectClient   pb.CollectionsClient
	collectionName  string
	vectorDimension int
}

// NewVectorRepository creates a new VectorRepository.
// Supports both local Qdrant (insecure) and Qdrant Cloud (TLS + API Key).
func NewVectorRepository(cfg *VectorConnectionConfig) (*VectorRepository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	vectorDimension := cfg.VectorDimension
	if vectorDimension <= 0 {
		vectorDimension = defaultVectorDimension
	}

	var opts []grpc.DialOption

	useTLS := cfg.UseTLS || cfg.APIKey != ""
	if useTLS {
		tlsConfig := &tls.Config{
			MinVersion: tls.VersionTLS13,
		}
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))

		if cfg.APIKey != "" {
			opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
		}
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &VectorRepository{
		conn:            conn,
		pointsClient:    pb.NewPointsClient(conn),
		collectClient:   pb.NewCollectionsClient(conn),
		collectionName:  cfg.Collection,
		vectorDimension: vectorDimension,
	}, nil
}

// Close closes the gRPC connection.
func (r *VectorRepository) Close() error {
	return r.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist.
func (r *VectorRepository) EnsureCollection(ctx context.Context) error {
	_, err := r.collectClient.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collectionName,
	})
	if err == nil {
		return nil
	}

	_, err = r.collectClient.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collectionName,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(r.vectorDimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// DocumentKey returns the stable store key for a photo ID.
func DocumentKey(photoID string) string {
	return documentKeyPrefix + photoID
}

// PointID derives the deterministic Qdrant point UUID for a photo ID.
func PointID(photoID string) string {
	return uuid.NewSHA1(documentNamespace, []byte(DocumentKey(photoID))).String()
}

// PhotoPayload is the metadata record stored with each indexed photo vector.
type PhotoPayload struct {
	PhotoID       string `json:"photo_id"`
	UserID        string `json:"user_id"`
	FoodClass     string `json:"food_class"`
	UserName      string `json:"user_name"`
	CreatedAt     string `json:"created_at"`
	IsOwnPhoto    bool   `json:"is_own_photo"`
	IsFriendPhoto bool   `json:"is_friend_photo"`
	IsFood        bool   `json:"is_food"`
	IndexedAt     string `json:"indexed_at"`
	Caption       string `json:"caption"`
}

// Upsert inserts or updates the indexed document for a photo. The point ID is
// derived from the photo ID, so re-upserting the same photo overwrites in
// place rather than duplicating.
func (r *VectorRepository) Upsert(ctx context.Context, photoID string, vector []float32, caption string, payload *PhotoPayload) error {
	points := []*pb.PointStruct{
		{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{
					Uuid: PointID(photoID),
				},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: vector,
					},
				},
			},
			Payload: map[string]*pb.Value{
				"photo_id":        {Kind: &pb.Value_StringValue{StringValue: payload.PhotoID}},
				"user_id":         {Kind: &pb.Value_StringValue{StringValue: payload.UserID}},
				"food_class":      {Kind: &pb.Value_StringValue{StringValue: payload.FoodClass}},
				"user_name":       {Kind: &pb.Value_StringValue{StringValue: payload.UserName}},
				"created_at":      {Kind: &pb.Value_StringValue{StringValue: payload.CreatedAt}},
				"is_own_photo":    {Kind: &pb.Value_BoolValue{BoolValue: payload.IsOwnPhoto}},
				"is_friend_photo": {Kind: &pb.Value_BoolValue{BoolValue: payload.IsFriendPhoto}},
				"is_food":         {Kind: &pb.Value_BoolValue{BoolValue: payload.IsFood}},
				"indexed_at":      {Kind: &pb.Value_StringValue{StringValue: payload.IndexedAt}},
				"caption":         {Kind: &pb.Value_StringValue{StringValue: caption}},
			},
		},
	}

	_, err := r.pointsClient.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Exists checks whether an indexed document already exists for the photo ID.
func (r *VectorRepository) Exists(ctx context.Context, photoID string) (bool, error) {
	resp, err := r.pointsClient.Get(ctx, &pb.GetPoints{
		CollectionName: r.collectionName,
		Ids: []*pb.PointId{
			{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(photoID)}},
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to get point: %w", err)
	}
	return len(resp.Result) > 0, nil
}

// PhotoFilter defines metadata filters for retrieval. Nil fields are not
// applied; ExcludeUserID becomes a must_not condition.
type PhotoFilter struct {
	UserID        *string
	ExcludeUserID *string
	IsOwnPhoto    *bool
	IsFriendPhoto *bool
	IsFood        *bool
}

// PhotoMatch is one retrieval hit: the stored caption plus its metadata.
type PhotoMatch struct {
	ID      string
	Score   float32
	Caption string
	Payload *PhotoPayload
}

// Search performs a vector similarity search with metadata filters.
func (r *VectorRepository) Search(ctx context.Context, vector []float32, topK int, filter *PhotoFilter) ([]PhotoMatch, error) {
	req := &pb.SearchPoints{
		CollectionName: r.collectionName,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	}

	if filter != nil {
		req.Filter = buildFilter(filter)
	}

	resp, err := r.pointsClient.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	matches := make([]PhotoMatch, len(resp.Result))
	for i, scored := range resp.Result {
		payload := parsePayload(scored.Payload)
		caption := ""
		if payload != nil {
			caption = payload.Caption
		}
		matches[i] = PhotoMatch{
			ID:      scored.Id.GetUuid(),
			Score:   scored.Score,
			Caption: caption,
			Payload: payload,
		}
	}

	return matches, nil
}

func keywordCondition(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}

func boolCondition(key string, value bool) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Boolean{Boolean: value},
				},
			},
		},
	}
}

func buildFilter(filter *PhotoFilter) *pb.Filter {
	var must []*pb.Condition
	var mustNot []*pb.Condition

	if filter.UserID != nil && *filter.UserID != "" {
		must = append(must, keywordCondition("user_id", *filter.UserID))
	}
	if filter.ExcludeUserID != nil && *filter.ExcludeUserID != "" {
		mustNot = append(mustNot, keywordCondition("user_id", *filter.ExcludeUserID))
	}
	if filter.IsOwnPhoto != nil {
		must = append(must, boolCondition("is_own_photo", *filter.IsOwnPhoto))
	}
	if filter.IsFriendPhoto != nil {
		must = append(must, boolCondition("is_friend_photo", *filter.IsFriendPhoto))
	}
	if filter.IsFood != nil {
		must = append(must, boolCondition("is_food", *filter.IsFood))
	}

	if len(must) == 0 && len(mustNot) == 0 {
		return nil
	}

	return &pb.Filter{
		Must:    must,
		MustNot: mustNot,
	}
}

func parsePayload(payload map[string]*pb.Value) *PhotoPayload {
	if payload == nil {
		return nil
	}

	p := &PhotoPayload{}
	if v, ok := payload["photo_id"]; ok {
		p.PhotoID = v.GetStringValue()
	}
	if v, ok := payload["user_id"]; ok {
		p.UserID = v.GetStringValue()
	}
	if v, ok := payload["food_class"]; ok {
		p.FoodClass = v.GetStringValue()
	}
	if v, ok := payload["user_name"]; ok {
		p.UserName = v.GetStringValue()
	}
	if v, ok := payload["created_at"]; ok {
		p.CreatedAt = v.GetStringValue()
	}
	if v, ok := payload["is_own_photo"]; ok {
		p.IsOwnPhoto = v.GetBoolValue()
	}
	if v, ok := payload["is_friend_photo"]; ok {
		p.IsFriendPhoto = v.GetBoolValue()
	}
	if v, ok := payload["is_food"]; ok {
		p.IsFood = v.GetBoolValue()
	}
	if v, ok := payload["indexed_at"]; ok {
		p.IndexedAt = v.GetStringValue()
	}
	if v, ok := payload["caption"]; ok {
		p.Caption = v.GetStringValue()
	}

	return p
}

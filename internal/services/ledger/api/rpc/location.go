package rpc

import (
	"net/http"

	"github.com/mythosforge/realmledger/internal/services/ledger/domain/location"
	"github.com/mythosforge/realmledger/internal/services/ledger/service"
)

// LocationAPI serves the location registry methods.
type LocationAPI struct {
	locations *service.LocationService
}

// CreateLocationArgs are the arguments for location.Create.
type CreateLocationArgs struct {
	Caller      string `json:"caller"`
	Slug        string `json:"slug"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Biome       string `json:"biome"`
	Difficulty  string `json:"difficulty"`
	ParentID    uint64 `json:"parentId"`
	SceneURI    string `json:"sceneUri"`
	Controller  string `json:"controller"`
	MetadataURI string `json:"metadataUri"`
}

// CreateLocationReply is the reply for location.Create.
type CreateLocationReply struct {
	ID uint64 `json:"id"`
}

// Create registers a new location.
func (api *LocationAPI) Create(r *http.Request, args *CreateLocationArgs, reply *CreateLocationReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	biome, err := location.ParseBiome(args.Biome)
	if err != nil {
		return toRPCError(err)
	}
	difficulty, err := location.ParseDifficulty(args.Difficulty)
	if err != nil {
		return toRPCError(err)
	}
	input := location.CreateLocationInput{
		Slug:        args.Slug,
		DisplayName: args.DisplayName,
		Description: args.Description,
		Biome:       biome,
		Difficulty:  difficulty,
		ParentID:    args.ParentID,
		SceneURI:    args.SceneURI,
		MetadataURI: args.MetadataURI,
	}
	if args.Controller != "" {
		controller, err := parseAddress("controller", args.Controller)
		if err != nil {
			return toRPCError(err)
		}
		input.Controller = controller
	}

	id, err := api.locations.Create(r.Context(), caller, input)
	if err != nil {
		return toRPCError(err)
	}
	reply.ID = id
	return nil
}

// UpdateMetadataArgs are the arguments for location.UpdateMetadata. Omitted
// fields are left unchanged; present fields force-assign, including zero values.
type UpdateMetadataArgs struct {
	Caller      string  `json:"caller"`
	ID          uint64  `json:"id"`
	DisplayName *string `json:"displayName,omitempty"`
	Description *string `json:"description,omitempty"`
	Biome       *string `json:"biome,omitempty"`
	Difficulty  *string `json:"difficulty,omitempty"`
	ParentID    *uint64 `json:"parentId,omitempty"`
	SceneURI    *string `json:"sceneUri,omitempty"`
	MetadataURI *string `json:"metadataUri,omitempty"`
}

// EmptyReply is the reply for methods with no result payload.
type EmptyReply struct{}

// UpdateMetadata applies a partial metadata update.
func (api *LocationAPI) UpdateMetadata(r *http.Request, args *UpdateMetadataArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}

	input := location.UpdateLocationInput{
		DisplayName: args.DisplayName,
		Description: args.Description,
		ParentID:    args.ParentID,
		SceneURI:    args.SceneURI,
		MetadataURI: args.MetadataURI,
	}
	if args.Biome != nil {
		biome, err := location.ParseBiome(*args.Biome)
		if err != nil {
			return toRPCError(err)
		}
		input.Biome = &biome
	}
	if args.Difficulty != nil {
		difficulty, err := location.ParseDifficulty(*args.Difficulty)
		if err != nil {
			return toRPCError(err)
		}
		input.Difficulty = &difficulty
	}

	return toRPCError(api.locations.UpdateMetadata(r.Context(), caller, args.ID, input))
}

// UpdateSlugArgs are the arguments for location.UpdateSlug.
type UpdateSlugArgs struct {
	Caller string `json:"caller"`
	ID     uint64 `json:"id"`
	Slug   string `json:"slug"`
}

// UpdateSlug renames a location's slug.
func (api *LocationAPI) UpdateSlug(r *http.Request, args *UpdateSlugArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.locations.UpdateSlug(r.Context(), caller, args.ID, args.Slug))
}

// SetControllerArgs are the arguments for location.SetController.
type SetControllerArgs struct {
	Caller     string `json:"caller"`
	ID         uint64 `json:"id"`
	Controller string `json:"controller"`
}

// SetController assigns the controlling address of a location.
func (api *LocationAPI) SetController(r *http.Request, args *SetControllerArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	controller, err := parseAddress("controller", args.Controller)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.locations.SetController(r.Context(), caller, args.ID, controller))
}

// SetActiveArgs are the arguments for location.SetActive.
type SetActiveArgs struct {
	Caller string `json:"caller"`
	ID     uint64 `json:"id"`
	Active bool   `json:"active"`
}

// SetActive toggles a location's active flag.
func (api *LocationAPI) SetActive(r *http.Request, args *SetActiveArgs, _ *EmptyReply) error {
	caller, err := parseAddress("caller", args.Caller)
	if err != nil {
		return toRPCError(err)
	}
	return toRPCError(api.locations.SetActive(r.Context(), caller, args.ID, args.Active))
}

// GetLocationArgs are the arguments for location.Get.
type GetLocationArgs struct {
	ID uint64 `json:"id"`
}

// GetLocationReply is the reply for location.Get and location.GetBySlug.
type GetLocationReply struct {
	Location LocationDTO `json:"location"`
}

// Get returns a location by ID.
func (api *LocationAPI) Get(r *http.Request, args *GetLocationArgs, reply *GetLocationReply) error {
	loc, err := api.locations.Get(r.Context(), args.ID)
	if err != nil {
		return toRPCError(err)
	}
	reply.Location = toLocationDTO(loc)
	return nil
}

// GetBySlugArgs are the arguments for location.GetBySlug.
type GetBySlugArgs struct {
	Slug string `json:"slug"`
}

// GetBySlug returns the location currently holding a slug.
func (api *LocationAPI) GetBySlug(r *http.Request, args *GetBySlugArgs, reply *GetLocationReply) error {
	loc, err := api.locations.GetBySlug(r.Context(), args.Slug)
	if err != nil {
		return toRPCError(err)
	}
	reply.Location = toLocationDTO(loc)
	return nil
}

// ListLocationsArgs are the arguments for location.List.
type ListLocationsArgs struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ListLocationsReply is the reply for location.List and location.Children.
type ListLocationsReply struct {
	Locations []LocationDTO `json:"locations"`
}

// List returns a bounded page of locations ordered by ID.
func (api *LocationAPI) List(r *http.Request, args *ListLocationsArgs, reply *ListLocationsReply) error {
	locations, err := api.locations.List(r.Context(), args.Offset, args.Limit)
	if err != nil {
		return toRPCError(err)
	}
	reply.Locations = make([]LocationDTO, 0, len(locations))
	for _, loc := range locations {
		reply.Locations = append(reply.Locations, toLocationDTO(loc))
	}
	return nil
}

// ChildrenArgs are the arguments for location.Children.
type ChildrenArgs struct {
	ParentID uint64 `json:"parentId"`
}

// Children returns the direct children of a parent location.
func (api *LocationAPI) Children(r *http.Request, args *ChildrenArgs, reply *ListLocationsReply) error {
	locations, err := api.locations.Children(r.Context(), args.ParentID)
	if err != nil {
		return toRPCError(err)
	}
	reply.Locations = make([]LocationDTO, 0, len(locations))
	for _, loc := range locations {
		reply.Locations = append(reply.Locations, toLocationDTO(loc))
	}
	return nil
}

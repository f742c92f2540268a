package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
	"docvault/internal/storage"
)

// Deps are the collaborators the HTTP routes delegate to.
type Deps struct {
	DB         Pinger
	Documents  service.DocumentService
	Shares     service.ShareService
	Workspaces service.WorkspaceService
	Folders    service.FolderService
	// MemoryBlobs enables /blobs/* for the in-memory backend.
	MemoryBlobs *storage.Memory
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay free of business logic; every decision lives in the services.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	if d.MemoryBlobs != nil {
		app.Get("/blobs/*", ServeBlob(d.MemoryBlobs))
	}

	auth := middleware.RequireActor()

	app.Post("/workspaces", auth, CreateWorkspace(d.Workspaces))
	app.Get("/workspaces/:id", auth, GetWorkspace(d.Workspaces))
	app.Post("/workspaces/:id/members", auth, AddMember(d.Workspaces))
	app.Get("/workspaces/:id/usage", auth, WorkspaceUsage(d.Workspaces))
	app.Post("/workspaces/:id/folders", auth, CreateFolder(d.Folders))
	app.Get("/workspaces/:id/folders", auth, ListFolders(d.Folders))
	app.Get("/workspaces/:id/documents", auth, ListDocuments(d.Documents))
	app.Post("/workspaces/:id/documents", auth, UploadDocument(d.Documents))

	app.Get("/documents/:id", auth, GetDocument(d.Documents))
	app.Patch("/documents/:id", auth, UpdateDocument(d.Documents))
	app.Delete("/documents/:id", auth, DeleteDocument(d.Documents))
	app.Post("/documents/:id/restore", auth, RestoreDocument(d.Documents))
	app.Get("/documents/:id/download", auth, DownloadDocument(d.Documents))
	app.Get("/documents/:id/versions", auth, ListVersions(d.Documents))
	app.Post("/documents/:id/versions", auth, UploadVersion(d.Documents))
	app.Get("/documents/:id/shares", auth, ListShares(d.Shares))
	app.Post("/documents/:id/shares", auth, GrantAccess(d.Shares))
	app.Delete("/documents/:id/shares/:grantee", auth, RevokeAccess(d.Shares))

	app.Get("/shared-with-me", auth, SharedWithMe(d.Shares))
}

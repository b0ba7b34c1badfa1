// Package translatev3 is a thin client for the Cloud Translation v3 REST
// surface (detectLanguage, translateText). One Client per credential pool;
// the project scope is passed per call so a client can serve both its own
// project and the fallback project.
package translatev3

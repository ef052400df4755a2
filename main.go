package main

import "github.com/surfscribe/annotator-api/cmd"

// @title           Surf Ride Annotator API
// @version         1.0.0
// @description     Annotation management for surf session videos: per-video sessions, surfer ride annotations, statistics, and export/import
// @contact.name    API Support
// @contact.url     https://github.com/surfscribe/annotator-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}

package covers

import "net/http"

// SetNetEaseAPIURL sets the NetEase API URL. Only useful for tests.
func (c *Client) SetNetEaseAPIURL(apiURL string) {
	c.netease.apiHost = apiURL
}

// SetQQMusicAPIURL sets the QQ Music API and image URLs. Only useful for
// tests.
func (c *Client) SetQQMusicAPIURL(apiURL, imageURL string) {
	c.qqmusic.apiHost = apiURL
	c.qqmusic.imageHost = imageURL
}

// SetITunesAPIURL sets the iTunes search API URL. Only useful for tests.
func (c *Client) SetITunesAPIURL(apiURL string) {
	c.itunes.apiHost = apiURL
}

// SetHTTPClient sets the HTTP client used for searches and image downloads.
// Only useful for tests.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
	c.netease.client = client
	c.qqmusic.client = client
	c.itunes.client = client
}

/*
Package covers is responsible for finding album cover images for uploaded
songs over the internet.

A cover is found by querying several independent music catalogues in a fixed
priority order with the song's artist and title. Every catalogue response is
normalized into a common candidate shape, the candidates are filtered against
an exclusion set and ranked, and the image of the best candidate is downloaded
and stored under the application's storage directory.

The following APIs are used to achieve this package's objective:

  - NetEase Cloud Music search: https://music.163.com/
  - QQ Music search: https://y.qq.com/
  - iTunes Search API: https://performance-partners.apple.com/search-api
  - Last.fm artist.getTopAlbums: https://www.last.fm/api/show/artist.getTopAlbums

Every one of them is an unstable third-party contract. Missing fields and
malformed payloads produce fewer candidates, never errors for the caller.
*/
package covers

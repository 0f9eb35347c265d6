package vcs

// networkFS reports whether path lives on a network mount. Tests replace it.
var networkFS = isNetworkFS
